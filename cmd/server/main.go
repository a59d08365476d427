package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"smartschool/backend/config"
	"smartschool/backend/internal/api/handler"
	"smartschool/backend/internal/api/router"
	"smartschool/backend/internal/repository"
	"smartschool/backend/internal/service"
	"smartschool/backend/pkg/database"
	"smartschool/backend/pkg/jwt"
	"smartschool/backend/pkg/logger"
	"smartschool/backend/pkg/notifier"
	"smartschool/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("连接数据库失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("获取底层数据库连接失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.Migrate(sqlDB, log); err != nil {
		log.Fatal("执行数据库迁移失败", zap.Error(err))
	}

	// Redis 不可用时降级运行：黑名单、限流与广播失效，核心功能不受影响
	var rdb *redis.Client
	var changeNotifier notifier.Notifier
	rdb, err = redis.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis 不可用，令牌黑名单与数据变更广播已禁用", zap.Error(err))
		rdb = nil
		changeNotifier = notifier.NewNopNotifier()
	} else {
		defer rdb.Close()
		changeNotifier = notifier.NewRedisNotifier(rdb, log)
	}

	jwtManager := jwt.NewManager(&cfg.Auth)
	repo := repository.New(db)
	services := service.New(service.Deps{
		Repo:     repo,
		JWT:      jwtManager,
		Redis:    rdb,
		Notifier: changeNotifier,
		Logger:   log,
	})
	handlers := handler.New(services, log)
	engine := router.New(cfg, handlers, jwtManager, rdb, log)

	var closer *service.Closer
	if cfg.Job.AutoCloseEnabled {
		closer = service.NewCloser(repo.Session, changeNotifier, log, cfg.Job.AutoCloseSpec)
		if err := closer.Start(); err != nil {
			log.Fatal("启动场次自动关闭任务失败", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到退出信号，开始优雅关闭")

	if closer != nil {
		closer.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("优雅关闭超时", zap.Error(err))
	}
	log.Info("服务已退出")
}
