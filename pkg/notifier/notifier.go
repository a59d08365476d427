package notifier

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"smartschool/backend/pkg/redis"
)

// Channel 数据变更广播频道，前端经网关订阅后刷新对应资源
const Channel = "data_refresh"

// Notifier 资源变更广播接口
// 变更成功后调用，通知失败不得影响业务结果
type Notifier interface {
	DataChanged(ctx context.Context, resource string)
}

// ── Redis Pub/Sub 实现 ──

type redisNotifier struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisNotifier 创建基于 Redis Pub/Sub 的 Notifier
func NewRedisNotifier(rdb *redis.Client, logger *zap.Logger) Notifier {
	return &redisNotifier{rdb: rdb, logger: logger}
}

// DataChanged 广播资源变更事件，失败仅记录日志
func (n *redisNotifier) DataChanged(ctx context.Context, resource string) {
	payload, err := json.Marshal(map[string]string{"resource": resource})
	if err != nil {
		n.logger.Warn("序列化变更事件失败", zap.Error(err))
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := n.rdb.Publish(pubCtx, Channel, string(payload)); err != nil {
		n.logger.Warn("广播数据变更失败",
			zap.String("resource", resource),
			zap.Error(err),
		)
	}
}

// ── 空实现（测试与 Redis 降级场景） ──

type nopNotifier struct{}

// NewNopNotifier 创建不做任何事的 Notifier
func NewNopNotifier() Notifier {
	return nopNotifier{}
}

func (nopNotifier) DataChanged(context.Context, string) {}
