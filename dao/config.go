package dao

import (
	"context"
	"errors"
	"fmt"

	"LiveCTF/common"
	"LiveCTF/model"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/go-xorm/xorm"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"xorm.io/core"
)

// DB 实现 challenge.Store, 数据在数据库里, redis 只做缓存和锁
type DB struct {
	engine *xorm.Engine
	rdb    *redis.Client //为空时不使用 redis
	log    zerolog.Logger
}

func New(engine *xorm.Engine, rdb *redis.Client, log zerolog.Logger) *DB {
	return &DB{engine: engine, rdb: rdb, log: log}
}

var drivers = map[string]bool{
	"mysql":    true,
	"postgres": true,
	"mssql":    true,
	"sqlite3":  true,
}

func NewEngine(cfg common.DatabaseConfig) (*xorm.Engine, error) {
	if !drivers[cfg.Driver] {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	engine, err := xorm.NewEngine(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := engine.Ping(); err != nil {
		return nil, err
	}
	engine.SetMapper(core.GonicMapper{})
	engine.ShowSQL(cfg.ShowSQL)
	if cfg.Driver == "sqlite3" {
		engine.SetMaxOpenConns(1) //sqlite 不支持并发写
	}
	return engine, nil
}

func NewRedis(ctx context.Context, cfg common.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

var tables = []interface{}{
	new(model.Team),
	new(model.User),
	new(model.Challenge),
	new(model.Flag),
	new(model.ChallengeFile),
	new(model.Tag),
	new(model.Solve),
	new(model.Fail),
	new(model.Award),
	new(model.LiveChallengeUser),
	new(model.LiveCTFAccess),
}

// Sync 同步表结构
func (d *DB) Sync() error {
	for _, t := range tables {
		if err := d.engine.Sync2(t); err != nil {
			return err
		}
	}
	return nil
}

// SeedSuperAdmin 超级管理员不存在时创建
func (d *DB) SeedSuperAdmin(ctx context.Context, cfg common.SuperAdminConfig) error {
	if cfg.Name == "" {
		return nil
	}
	if cfg.Password == "" {
		return errors.New("super_admin.password is required")
	}
	u, err := d.FindUserByName(ctx, cfg.Name)
	if err != nil {
		return err
	}
	if u != nil {
		return nil
	}
	hash, err := common.HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	u = &model.User{
		Name:     cfg.Name,
		Password: hash,
		Email:    cfg.Email,
		Type:     model.UserTypeAdmin,
	}
	if err := d.CreateUser(ctx, u); err != nil {
		return err
	}
	d.log.Info().Str("name", u.Name).Msg("super admin created")
	return nil
}

// Init 连接数据库和 redis, 同步表并创建超级管理员
func Init(ctx context.Context, cfg *common.Config, log zerolog.Logger) (*DB, error) {
	engine, err := NewEngine(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Database.Driver, err)
	}
	rdb, err := NewRedis(ctx, cfg.Redis)
	if err != nil {
		engine.Close()
		return nil, err
	}
	d := New(engine, rdb, log)
	if err := d.Sync(); err != nil {
		d.Close()
		return nil, fmt.Errorf("sync tables: %w", err)
	}
	if err := d.SeedSuperAdmin(ctx, cfg.SuperAdmin); err != nil {
		d.Close()
		return nil, fmt.Errorf("seed super admin: %w", err)
	}
	return d, nil
}

func (d *DB) Close() error {
	var errs []error
	if d.rdb != nil {
		errs = append(errs, d.rdb.Close())
	}
	errs = append(errs, d.engine.Close())
	return errors.Join(errs...)
}
