package diarize

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/pipeline"
	"dualscribe/internal/app/utils"
)

// Cached wraps a Diarizer with a redis result cache keyed by a content
// hash of the samples. Cache trouble is logged and bypassed; it never
// fails a request.
type Cached struct {
	inner  Diarizer
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCached(inner Diarizer, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *Cached) Diarize(ctx context.Context, samples *audio.Buffer) ([]pipeline.RawInterval, error) {
	key := fmt.Sprintf("dualscribe:diarize:%s", utils.HashBuffer(samples))

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var intervals []pipeline.RawInterval
		if err := json.Unmarshal(data, &intervals); err == nil {
			c.logger.Debug("diarization cache hit", zap.String("key", key))
			return intervals, nil
		}
		c.logger.Warn("diarization cache entry corrupt, recomputing", zap.String("key", key))
	} else if err != redis.Nil {
		c.logger.Warn("diarization cache unavailable", zap.Error(err))
	}

	intervals, err := c.inner.Diarize(ctx, samples)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(intervals); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to store diarization cache entry", zap.Error(err))
		}
	}
	return intervals, nil
}
