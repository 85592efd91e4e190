package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

const DefaultDigestChannel = "reminders.due"

// Publisher sends JSON payloads to one pub/sub channel.
type Publisher interface {
	Publish(ctx context.Context, payload any) error
	Channel() string
}

type publisher struct {
	log     *logger.Logger
	rdb     goredis.UniversalClient
	channel string
}

func NewPublisher(log *logger.Logger, rdb goredis.UniversalClient, channel string) (Publisher, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if log == nil {
		log = logger.Nop()
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultDigestChannel
	}
	return &publisher{log: log.With("service", "RedisPublisher"), rdb: rdb, channel: channel}, nil
}

func (p *publisher) Channel() string { return p.channel }

func (p *publisher) Publish(ctx context.Context, payload any) error {
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis publisher not initialized")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}
