package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type H = map[string]interface{}

type DatabaseConfig struct {
	Driver  string `json:"driver" yaml:"driver" env:"DRIVER"` //mysql, postgres, mssql, sqlite3
	DSN     string `json:"dsn" yaml:"dsn" env:"DSN"`
	ShowSQL bool   `json:"show_sql" yaml:"show_sql" env:"SHOW_SQL"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" env:"ADDR"` //为空时不使用 redis
	Password string `json:"password" yaml:"password" env:"PASSWORD"`
	DB       int    `json:"db" yaml:"db" env:"DB"`
}

type SuperAdminConfig struct {
	Name     string `json:"name" yaml:"name" env:"NAME"`
	Password string `json:"password" yaml:"password" env:"PASSWORD"`
	Email    string `json:"email" yaml:"email" env:"EMAIL"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" env:"LEVEL"`
	File  string `json:"file" yaml:"file" env:"FILE"` //为空时输出到控制台
}

type Config struct {
	Address       string           `json:"address" yaml:"address" env:"ADDRESS"`
	SessionSecret string           `json:"session_secret" yaml:"session_secret" env:"SESSION_SECRET"`
	UploadFolder  string           `json:"upload_folder" yaml:"upload_folder" env:"UPLOAD_FOLDER"`
	AttemptLimit  int              `json:"attempt_limit" yaml:"attempt_limit" env:"ATTEMPT_LIMIT"` //每分钟错误提交上限, 0 不限制
	Database      DatabaseConfig   `json:"database" yaml:"database" envPrefix:"DATABASE_"`
	Redis         RedisConfig      `json:"redis" yaml:"redis" envPrefix:"REDIS_"`
	SuperAdmin    SuperAdminConfig `json:"super_admin" yaml:"super_admin" envPrefix:"SUPER_ADMIN_"`
	Log           LogConfig        `json:"log" yaml:"log" envPrefix:"LOG_"`
}

const envPrefix = "LIVECTF_"

// LoadConfig 读取 json 或 yaml 配置文件, 然后用 .env 和环境变量覆盖
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	content, err := GetContent(path)
	if err != nil {
		return nil, err
	}
	if content != "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal([]byte(content), cfg)
		default:
			err = json.Unmarshal([]byte(content), cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Address == "" {
		cfg.Address = ":9999"
	}
	if cfg.UploadFolder == "" {
		cfg.UploadFolder = "./uploads"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func (cfg *Config) check() error {
	if cfg.Database.Driver == "" {
		return errors.New("database.driver is required")
	}
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if cfg.SessionSecret == "" {
		return errors.New("session_secret is required")
	}
	return nil
}
