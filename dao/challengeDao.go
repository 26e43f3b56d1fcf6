package dao

import (
	"context"
	"strconv"
	"time"

	"LiveCTF/common"
	"LiveCTF/model"
)

const CHALLENGE_REDIS_EXPIRE = 10 * time.Minute

/*
	challenge_<id>: hash, 按 json 标签缓存题目
*/

func challengeKey(id int64) string {
	return "challenge_" + strconv.FormatInt(id, 10)
}

func (d *DB) CreateChallenge(ctx context.Context, ch *model.Challenge) error {
	_, err := d.engine.Context(ctx).InsertOne(ch)
	return err
}

func (d *DB) GetChallenge(ctx context.Context, id int64) (*model.Challenge, error) {
	ch := &model.Challenge{}
	key := challengeKey(id)
	if d.rdb != nil {
		ok, err := d.getObjFromRedis(ctx, key, ch)
		if err != nil {
			d.log.Warn().Err(err).Str("key", key).Msg("read challenge cache")
		} else if ok {
			return ch, nil
		}
		ch = &model.Challenge{}
	}
	exist, err := d.engine.Context(ctx).ID(id).Get(ch)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, common.ErrNotFound("")
	}
	if d.rdb != nil {
		if err := d.putObjToRedis(ctx, key, ch, CHALLENGE_REDIS_EXPIRE); err != nil {
			d.log.Warn().Err(err).Str("key", key).Msg("write challenge cache")
		}
	}
	return ch, nil
}

// ListChallenges 按 id 顺序返回题目, all 为 false 时只返回 visible 的
func (d *DB) ListChallenges(ctx context.Context, all bool) ([]model.Challenge, error) {
	ret := make([]model.Challenge, 0)
	sess := d.engine.Context(ctx).Asc("id")
	if !all {
		sess = sess.Where("state = ?", model.StateVisible)
	}
	if err := sess.Find(&ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (d *DB) UpdateChallenge(ctx context.Context, ch *model.Challenge) error {
	if _, err := d.engine.Context(ctx).ID(ch.ID).AllCols().Update(ch); err != nil {
		return err
	}
	d.delKeys(ctx, challengeKey(ch.ID))
	return nil
}

// DeleteChallenge 在一个事务里删除题目及所有依赖它的记录
func (d *DB) DeleteChallenge(ctx context.Context, id int64) ([]model.ChallengeFile, error) {
	files := make([]model.ChallengeFile, 0)
	sess := d.engine.NewSession()
	defer sess.Close()
	sess = sess.Context(ctx)
	if err := sess.Begin(); err != nil {
		return nil, err
	}
	exist, err := sess.Where("id = ?", id).Exist(&model.Challenge{})
	if err != nil {
		sess.Rollback()
		return nil, err
	}
	if !exist {
		sess.Rollback()
		return nil, common.ErrNotFound("")
	}
	if err := sess.Where("challenge_id = ?", id).Asc("id").Find(&files); err != nil {
		sess.Rollback()
		return nil, err
	}
	dependents := []interface{}{
		&model.Fail{}, &model.Solve{}, &model.Flag{}, &model.ChallengeFile{}, &model.Tag{},
		&model.LiveChallengeUser{}, &model.LiveCTFAccess{},
	}
	for _, bean := range dependents {
		if _, err := sess.Where("challenge_id = ?", id).Delete(bean); err != nil {
			sess.Rollback()
			return nil, err
		}
	}
	if _, err := sess.ID(id).Delete(&model.Challenge{}); err != nil {
		sess.Rollback()
		return nil, err
	}
	if err := sess.Commit(); err != nil {
		return nil, err
	}
	d.delKeys(ctx, challengeKey(id))
	return files, nil
}

func (d *DB) ListFlags(ctx context.Context, challengeID int64) ([]model.Flag, error) {
	ret := make([]model.Flag, 0)
	err := d.engine.Context(ctx).Where("challenge_id = ?", challengeID).Asc("id").Find(&ret)
	return ret, err
}

func (d *DB) CreateFlag(ctx context.Context, f *model.Flag) error {
	_, err := d.engine.Context(ctx).InsertOne(f)
	return err
}

func (d *DB) DeleteFlag(ctx context.Context, id int64) error {
	n, err := d.engine.Context(ctx).ID(id).Delete(&model.Flag{})
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound("")
	}
	return nil
}

func (d *DB) ListTags(ctx context.Context, challengeID int64) ([]model.Tag, error) {
	ret := make([]model.Tag, 0)
	err := d.engine.Context(ctx).Where("challenge_id = ?", challengeID).Asc("id").Find(&ret)
	return ret, err
}

func (d *DB) CreateTag(ctx context.Context, t *model.Tag) error {
	_, err := d.engine.Context(ctx).InsertOne(t)
	return err
}

func (d *DB) CreateFile(ctx context.Context, f *model.ChallengeFile) error {
	_, err := d.engine.Context(ctx).InsertOne(f)
	return err
}
