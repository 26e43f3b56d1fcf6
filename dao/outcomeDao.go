package dao

import (
	"context"

	"LiveCTF/model"
)

// Solve 和 Fail 只插入, 不修改

func (d *DB) InsertSolve(ctx context.Context, s *model.Solve) error {
	_, err := d.engine.Context(ctx).InsertOne(s)
	return err
}

func (d *DB) InsertFail(ctx context.Context, f *model.Fail) error {
	_, err := d.engine.Context(ctx).InsertOne(f)
	return err
}

func (d *DB) CountFails(ctx context.Context, challengeID, userID int64, teamID *int64) (int64, error) {
	sess := d.engine.Context(ctx).Where("challenge_id = ?", challengeID)
	if teamID != nil {
		sess = sess.And("team_id = ?", *teamID)
	} else {
		sess = sess.And("user_id = ?", userID)
	}
	return sess.Count(&model.Fail{})
}

// CountDistinctSolvingTeams 没有队伍的解题不计入
func (d *DB) CountDistinctSolvingTeams(ctx context.Context, challengeID int64) (int64, error) {
	var n int64
	_, err := d.engine.Context(ctx).
		SQL("select count(distinct team_id) from solves where challenge_id = ? and team_id is not null", challengeID).
		Get(&n)
	return n, err
}

func (d *DB) ListSolves(ctx context.Context, challengeID int64) ([]model.Solve, error) {
	ret := make([]model.Solve, 0)
	err := d.engine.Context(ctx).Where("challenge_id = ?", challengeID).Asc("id").Find(&ret)
	return ret, err
}

func (d *DB) FindAward(ctx context.Context, teamID int64, description string) (*model.Award, error) {
	a := &model.Award{}
	exist, err := d.engine.Context(ctx).Where("team_id = ? and description = ?", teamID, description).Get(a)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, nil
	}
	return a, nil
}

func (d *DB) InsertAward(ctx context.Context, a *model.Award) error {
	_, err := d.engine.Context(ctx).InsertOne(a)
	return err
}

func (d *DB) ListAwards(ctx context.Context, teamID int64) ([]model.Award, error) {
	ret := make([]model.Award, 0)
	err := d.engine.Context(ctx).Where("team_id = ?", teamID).Asc("id").Find(&ret)
	return ret, err
}
