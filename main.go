package main

import (
	"context"
	"time"

	"mafia-mod-be/internal/api/http"
	"mafia-mod-be/internal/backend"
	"mafia-mod-be/internal/config"
	"mafia-mod-be/internal/logger"
	"mafia-mod-be/internal/random"
	"mafia-mod-be/internal/roster"
	"mafia-mod-be/internal/service"
	"mafia-mod-be/internal/service/game"
	"mafia-mod-be/internal/snapshot"
	"mafia-mod-be/internal/state"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)

	// 评分后端和玩家名册
	backendClient := backend.NewClient(cfg.BackendURL)
	rosterCache := roster.New(backendClient)

	// 启动时拉一次名册，失败不拦着启动
	refreshCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := rosterCache.Refresh(refreshCtx); err != nil {
		zap.L().Warn("启动时拉取玩家名册失败", zap.Error(err))
	}
	cancel()

	// 随机源：配置了真随机服务就走预取池，否则只用本地源
	var randSource game.RandSource

	local := random.NewLocalSource()
	if cfg.RandomURL != "" {
		pool := random.NewPoolSource(cfg.RandomURL, cfg.RandomPoolSize, local)

		prefetchCtx, cancelPrefetch := context.WithTimeout(context.Background(), 15*time.Second)
		if err := pool.Prefetch(prefetchCtx); err != nil {
			zap.L().Warn("预取真随机数失败，暂时使用本地随机源", zap.Error(err))
		}
		cancelPrefetch()

		randSource = pool
	} else {
		randSource = local
	}

	// 快照存储
	store, err := snapshot.NewStore(cfg.SnapshotDir)
	if err != nil {
		panic(err)
	}

	// 组装会话服务并恢复未打完的局
	sessionSvc := service.NewSessionService(game.Deps{
		Rand:     randSource,
		Recorder: service.NewBackendRecorder(backendClient),
		Known:    rosterCache,
		Saver:    store,
	})

	snaps, err := store.LoadAll()
	if err != nil {
		zap.L().Warn("读取会话快照失败", zap.Error(err))
	} else {
		sessionSvc.Restore(snaps)
	}

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		sessionSvc,
		rosterCache,
		backendClient,
	)

	// 启动服务器
	http.RunServer(appState)
}
