package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/arogyalabs/arogyabot/internal/model"
)

// ResearchCache keeps web evidence in Redis so repeated questions don't
// re-search and re-fetch the same pages.
type ResearchCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewResearchCache(client *redisv9.Client, ttl time.Duration) *ResearchCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ResearchCache{client: client, ttl: ttl}
}

func (c *ResearchCache) GetSources(ctx context.Context, lang, query string) ([]model.Source, bool, error) {
	raw, err := c.client.Get(ctx, c.sourcesKey(lang, query)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get sources failed: %w", err)
	}

	var sources []model.Source
	if err := json.Unmarshal([]byte(raw), &sources); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached sources failed: %w", err)
	}
	return sources, true, nil
}

func (c *ResearchCache) SetSources(ctx context.Context, lang, query string, sources []model.Source) error {
	payload, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshal sources cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.sourcesKey(lang, query), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set sources failed: %w", err)
	}
	return nil
}

func (c *ResearchCache) GetPageText(ctx context.Context, url string) (string, bool, error) {
	raw, err := c.client.Get(ctx, c.pageKey(url)).Result()
	if err == redisv9.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get page text failed: %w", err)
	}
	return raw, true, nil
}

func (c *ResearchCache) SetPageText(ctx context.Context, url, text string) error {
	if err := c.client.Set(ctx, c.pageKey(url), text, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set page text failed: %w", err)
	}
	return nil
}

func (c *ResearchCache) sourcesKey(lang, query string) string {
	return "research:sources:" + lang + ":" + digest(query)
}

func (c *ResearchCache) pageKey(url string) string {
	return "research:page:" + digest(url)
}

func digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
