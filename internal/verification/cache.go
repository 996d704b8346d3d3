package verification

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/clinic-console/pkg/logging"
)

const defaultCacheTTL = 2 * time.Minute

// CachedGateway memoizes whole-batch answers in Redis. Entries are keyed by
// the exact batch so answers for different batches are never merged.
type CachedGateway struct {
	next   Gateway
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewCachedGateway(next Gateway, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedGateway {
	if next == nil {
		panic("verification: next gateway cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedGateway{next: next, redis: client, ttl: ttl, logger: logger}
}

// Check serves the batch from Redis when present. Degraded answers are never
// stored, and Redis errors fall through to the wrapped gateway.
func (c *CachedGateway) Check(ctx context.Context, ids []string) Result {
	ids = UniqueIDs(ids)
	if len(ids) == 0 || c.redis == nil {
		return c.next.Check(ctx, ids)
	}

	ctx, span := tracer.Start(ctx, "verification.cached_check")
	defer span.End()

	key := batchKey(ids)
	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached Result
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			span.SetAttributes(attribute.Bool("verification.cache_hit", true))
			return restrict(ids, cached)
		}
		c.logger.Warn("discarding unreadable verification cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		span.RecordError(err)
		c.logger.Warn("verification cache read failed", "error", err)
	}
	span.SetAttributes(attribute.Bool("verification.cache_hit", false))

	res := c.next.Check(ctx, ids)
	if res.Degraded {
		return res
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return res
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		span.RecordError(err)
		c.logger.Warn("verification cache write failed", "error", err)
	}
	return res
}

func batchKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	sum := sha1.Sum([]byte(strings.Join(sorted, "\n")))
	return "verification:" + hex.EncodeToString(sum[:])
}
