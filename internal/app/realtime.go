package app

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nedgladstone/cardball/internal/observability"
	"github.com/nedgladstone/cardball/internal/platform/logger"
	"github.com/nedgladstone/cardball/internal/realtime/bus"
)

// wireBus returns the redis bus when REDIS_ADDR is set, else an in-process bus. The
// redis client is nil for the in-process bus.
func wireBus(log *logger.Logger, cfg Config, metrics *observability.Metrics) (bus.Bus, *goredis.Client, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		log.Info("REDIS_ADDR not set; realtime events stay in-process")
		return bus.NewLocalBus(), nil, nil
	}
	b, rdb, err := bus.NewRedisBus(log, bus.RedisConfig{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel}, metrics)
	if err != nil {
		return nil, nil, fmt.Errorf("init redis bus: %w", err)
	}
	return b, rdb, nil
}
