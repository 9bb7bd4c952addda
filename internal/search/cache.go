package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "scent:search:"

// cacheStore es el subconjunto de redis que usa la caché (facilita tests).
type cacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedSearcher guarda respuestas de búsqueda en Redis durante ttl.
// Los errores de Redis nunca rompen la búsqueda: se loguean y se consulta al backend.
type CachedSearcher struct {
	next   Searcher
	store  cacheStore
	ttl    time.Duration
	logger *zap.Logger
}

var _ Searcher = (*CachedSearcher)(nil)

func NewCachedSearcher(next Searcher, store cacheStore, ttl time.Duration, logger *zap.Logger) *CachedSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{next: next, store: store, ttl: ttl, logger: logger}
}

func (c *CachedSearcher) Search(ctx context.Context, req *Request) (*Response, error) {
	if c.store == nil || c.ttl <= 0 {
		return c.next.Search(ctx, req)
	}
	key := cacheKey(req)

	raw, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached Response
		if uerr := json.Unmarshal(raw, &cached); uerr == nil {
			return &cached, nil
		}
		c.logger.Warn("search cache entry corrupt", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("search cache get failed", zap.Error(err))
	}

	resp, err := c.next.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return resp, nil
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return resp, nil
	}
	if err := c.store.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("search cache set failed", zap.Error(err))
	}
	return resp, nil
}

func cacheKey(req *Request) string {
	name := fmt.Sprintf("%s|%d|%d", req.Query, req.NumResults, req.MaxCharacters)
	return cacheKeyPrefix + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
