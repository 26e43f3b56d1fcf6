package dao

import (
	"context"
	"fmt"

	"LiveCTF/challenge"
	"LiveCTF/model"
)

func grantBean(kind challenge.GrantKind, challengeID, userID int64) (interface{}, error) {
	switch kind {
	case challenge.GrantLive:
		return &model.LiveChallengeUser{ChallengeID: challengeID, UserID: userID}, nil
	case challenge.GrantLiveCTF:
		return &model.LiveCTFAccess{ChallengeID: challengeID, UserID: userID}, nil
	}
	return nil, fmt.Errorf("unknown grant kind %q", kind)
}

func (d *DB) HasGrant(ctx context.Context, kind challenge.GrantKind, challengeID, userID int64) (bool, error) {
	bean, err := grantBean(kind, 0, 0)
	if err != nil {
		return false, err
	}
	return d.engine.Context(ctx).Where("challenge_id = ? and user_id = ?", challengeID, userID).Exist(bean)
}

func (d *DB) ListGrants(ctx context.Context, kind challenge.GrantKind, challengeID int64) ([]int64, error) {
	bean, err := grantBean(kind, 0, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0)
	err = d.engine.Context(ctx).Table(bean).Where("challenge_id = ?", challengeID).Asc("user_id").Cols("user_id").Find(&ids)
	return ids, err
}

// ReplaceGrants 先删后插, 在同一个事务里完成
func (d *DB) ReplaceGrants(ctx context.Context, kind challenge.GrantKind, challengeID int64, userIDs []int64) error {
	empty, err := grantBean(kind, 0, 0)
	if err != nil {
		return err
	}
	sess := d.engine.NewSession()
	defer sess.Close()
	sess = sess.Context(ctx)
	if err := sess.Begin(); err != nil {
		return err
	}
	if _, err := sess.Where("challenge_id = ?", challengeID).Delete(empty); err != nil {
		sess.Rollback()
		return err
	}
	for _, uid := range userIDs {
		bean, _ := grantBean(kind, challengeID, uid)
		if _, err := sess.InsertOne(bean); err != nil {
			sess.Rollback()
			return err
		}
	}
	return sess.Commit()
}
