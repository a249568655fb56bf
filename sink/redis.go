// Package sink forwards polled readings to external consumers.
package sink

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moffa90/go-mcp3208/adc"
	"github.com/moffa90/go-mcp3208/config"
)

// Streamer is the subset of the go-redis client the sink needs.
type Streamer interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// RedisSink appends readings to a Redis stream, one entry per channel.
//
// Entry fields:
//
//	channel   0-7
//	mode      "single" or "diff"
//	raw       12-bit sample
//	ts        RFC 3339 timestamp with nanoseconds
//	session   identifier of the polling run
type RedisSink struct {
	client  Streamer
	stream  string
	maxLen  int64
	session string
}

// NewRedisSink creates a sink. maxLen > 0 trims the stream approximately to
// that many entries.
func NewRedisSink(client Streamer, stream string, maxLen int64, session string) *RedisSink {
	return &RedisSink{
		client:  client,
		stream:  stream,
		maxLen:  maxLen,
		session: session,
	}
}

// Publish appends every reading in order and returns the stream IDs.
func (s *RedisSink) Publish(ctx context.Context, readings []adc.Reading) ([]string, error) {
	ids := make([]string, 0, len(readings))
	for _, rd := range readings {
		args := &redis.XAddArgs{
			Stream: s.stream,
			Values: map[string]interface{}{
				"channel": strconv.Itoa(int(rd.Channel)),
				"mode":    rd.Mode.String(),
				"raw":     strconv.Itoa(int(rd.Raw)),
				"ts":      rd.Timestamp.UTC().Format(time.RFC3339Nano),
				"session": s.session,
			},
		}
		if s.maxLen > 0 {
			args.MaxLen = s.maxLen
			args.Approx = true
		}

		id, err := s.client.XAdd(ctx, args).Result()
		if err != nil {
			return ids, fmt.Errorf("xadd %s %s: %w", s.stream, rd.Channel, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
