package dao

import (
	"context"

	"LiveCTF/common"
	"LiveCTF/model"
)

func (d *DB) CreateUser(ctx context.Context, u *model.User) error {
	if u.Type == "" {
		u.Type = model.UserTypeUser
	}
	_, err := d.engine.Context(ctx).InsertOne(u)
	return err
}

func (d *DB) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	exist, err := d.engine.Context(ctx).ID(id).Get(u)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, common.ErrNotFound("user not found")
	}
	return u, nil
}

func (d *DB) FindUserByName(ctx context.Context, name string) (*model.User, error) {
	u := &model.User{}
	exist, err := d.engine.Context(ctx).Where("name = ?", name).Get(u)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, nil
	}
	return u, nil
}

// GetUsers 按 id 顺序返回, 不存在的 id 忽略
func (d *DB) GetUsers(ctx context.Context, ids []int64) ([]model.User, error) {
	ret := make([]model.User, 0, len(ids))
	if len(ids) == 0 {
		return ret, nil
	}
	err := d.engine.Context(ctx).In("id", ids).Asc("id").Find(&ret)
	return ret, err
}

// ListActiveUsers 普通用户中未封禁且未隐藏的
func (d *DB) ListActiveUsers(ctx context.Context) ([]model.User, error) {
	ret := make([]model.User, 0)
	err := d.engine.Context(ctx).
		Where("type = ? and banned = ? and hidden = ?", model.UserTypeUser, false, false).
		Asc("id").
		Find(&ret)
	return ret, err
}

func (d *DB) CreateTeam(ctx context.Context, t *model.Team) error {
	_, err := d.engine.Context(ctx).InsertOne(t)
	return err
}

func (d *DB) GetTeam(ctx context.Context, id int64) (*model.Team, error) {
	t := &model.Team{}
	exist, err := d.engine.Context(ctx).ID(id).Get(t)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, common.ErrNotFound("team not found")
	}
	return t, nil
}
