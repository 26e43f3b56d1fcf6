package main

import (
	"context"
	"flag"
	"time"

	"LiveCTF/app"
	"LiveCTF/challenge"
	"LiveCTF/common"
	"LiveCTF/dao"

	"github.com/rs/zerolog/log"
)

func main() {
	path := flag.String("config", "config.json", "config file, json or yaml")
	flag.Parse()

	cfg, err := common.LoadConfig(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := common.InitLogger(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}

	db, err := dao.Init(context.Background(), cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}
	defer db.Close()
	log.Info().Str("driver", cfg.Database.Driver).Msg("数据库初始化完成")

	files, err := app.NewUploader(cfg.UploadFolder)
	if err != nil {
		log.Fatal().Err(err).Msg("init upload folder")
	}
	registry := challenge.NewRegistry(
		challenge.NewStandard(db, files, log.Logger),
		challenge.NewLive(db, files, log.Logger),
		challenge.NewLiveCTF(db, files, log.Logger),
	)
	awards := challenge.NewAwardEngine(db, db, db.Locker(), log.Logger)
	orch := challenge.NewOrchestrator(registry, db, awards, db.RateLimiter(cfg.AttemptLimit, time.Minute), log.Logger)

	if err := app.NewServer(cfg, db, orch, files).Run(); err != nil {
		log.Fatal().Err(err).Msg("路由初始化错误")
	}
}
