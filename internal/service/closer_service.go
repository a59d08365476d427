package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"smartschool/backend/internal/repository"
	"smartschool/backend/pkg/notifier"
)

// Closer 定时任务：把过期仍开放的场次批量关闭
// 每日过零点后执行一次，保证日期已翻页
type Closer struct {
	sessions repository.SessionRepository
	notifier notifier.Notifier
	logger   *zap.Logger
	cron     *cron.Cron
	spec     string
}

// NewCloser 创建自动关闭任务
func NewCloser(sessions repository.SessionRepository, n notifier.Notifier, logger *zap.Logger, spec string) *Closer {
	return &Closer{
		sessions: sessions,
		notifier: n,
		logger:   logger,
		cron:     cron.New(),
		spec:     spec,
	}
}

// Start 注册并启动定时任务
func (c *Closer) Start() error {
	if _, err := c.cron.AddFunc(c.spec, c.run); err != nil {
		return err
	}
	c.cron.Start()
	c.logger.Info("场次自动关闭任务已启动", zap.String("spec", c.spec))
	return nil
}

// Stop 停止定时任务并等待运行中的任务结束
func (c *Closer) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

func (c *Closer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	affected, err := c.sessions.CloseExpired(ctx, time.Now())
	if err != nil {
		c.logger.Error("自动关闭过期场次失败", zap.Error(err))
		return
	}
	if affected > 0 {
		c.logger.Info("已自动关闭过期场次", zap.Int64("count", affected))
		c.notifier.DataChanged(ctx, "sessions")
	}
}
