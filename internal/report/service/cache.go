package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	platformredis "github.com/shoreagents/shoreagents-asset-dog-sub006/internal/platform/redis"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
)

// PayloadCache stores rendered report payloads in Redis keyed by a canonical
// digest of the filter set. Valid because identical filters over unchanged
// data produce identical output; the short TTL bounds staleness when data
// does change.
type PayloadCache struct {
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewPayloadCache constructs the cache. Returns nil when client is nil so a
// missing Redis simply disables caching.
func NewPayloadCache(client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *PayloadCache {
	if client == nil {
		return nil
	}
	return &PayloadCache{client: client, ttl: ttl, logger: logger}
}

// Get returns a cached report, or (nil, false) on miss or failure. Cache
// failures never fail the request.
func (c *PayloadCache) Get(ctx context.Context, key string) (*models.Report, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var report models.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		c.logger.WarnContext(ctx, "report cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return &report, true
}

// Set stores a report, best effort.
func (c *PayloadCache) Set(ctx context.Context, key string, report *models.Report) {
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "report cache write failed", "key", key, "error", err)
	}
}

// cacheKey digests every filter field in a fixed order.
func cacheKey(f models.Filters) string {
	parts := []string{
		f.TransactionType,
		f.Category,
		f.Location,
		f.Site,
		f.Department,
		f.AssetTag,
		f.ActionBy,
		formatDate(f.StartDate),
		formatDate(f.EndDate),
		strconv.Itoa(f.Page),
		strconv.Itoa(f.PageSize),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "assetdog:report:" + hex.EncodeToString(sum[:])
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
