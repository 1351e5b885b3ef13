package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/yakoovad/flowcraft/internal/model"
)

const keyPrefix = "flowcraft:workspace:"

// Connect initializes a Redis client from URL or host:port input.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// WorkspaceCache stores workspace snapshots as JSON with a TTL.
type WorkspaceCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewWorkspaceCache(client redis.Cmdable, ttl time.Duration) *WorkspaceCache {
	return &WorkspaceCache{client: client, ttl: ttl}
}

func Key(workspaceID string) string {
	return keyPrefix + workspaceID
}

// Get returns nil without error on a cache miss.
func (c *WorkspaceCache) Get(ctx context.Context, workspaceID string) (*model.Workspace, error) {
	raw, err := c.client.Get(ctx, Key(workspaceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	ws := &model.Workspace{}
	if err = json.Unmarshal(raw, ws); err != nil {
		return nil, errors.Wrap(err, "decode cached workspace")
	}
	return ws, nil
}

func (c *WorkspaceCache) Set(ctx context.Context, ws *model.Workspace) error {
	raw, err := json.Marshal(ws)
	if err != nil {
		return errors.Wrap(err, "encode workspace")
	}
	return errors.Wrap(c.client.Set(ctx, Key(ws.ID), raw, c.ttl).Err(), "redis set")
}

func (c *WorkspaceCache) Invalidate(ctx context.Context, workspaceID string) error {
	return errors.Wrap(c.client.Del(ctx, Key(workspaceID)).Err(), "redis del")
}
