package cache

import (
	"context"
	"fmt"
	"time"

	"agora/internal/middleware"

	"github.com/google/uuid"
)

const (
	CategoriesActiveKey = "categories:active"
	IdeaKeyPrefix       = "idea:%s"
	StatsOverviewKey    = "stats:overview"
)

const (
	CategoriesTTL    = 10 * time.Minute
	IdeaTTL          = 5 * time.Minute
	StatsOverviewTTL = time.Minute
)

func IdeaKey(ideaID uuid.UUID) string {
	return fmt.Sprintf(IdeaKeyPrefix, ideaID)
}

// Invalidate deletes keys, logging rather than failing on Redis errors.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", "keys", keys, "error", err)
	}
}

// InvalidateIdea drops the cached idea detail and the aggregates that
// include it.
func InvalidateIdea(ctx context.Context, ideaID uuid.UUID) {
	Invalidate(ctx, IdeaKey(ideaID), StatsOverviewKey)
}

// InvalidateIdeaDetails drops every cached idea detail. Details embed the
// category, the author and comment authors, so writes to those rows make
// any of them stale.
func InvalidateIdeaDetails(ctx context.Context) {
	if client == nil {
		return
	}
	var keys []string
	iter := client.Scan(ctx, 0, fmt.Sprintf(IdeaKeyPrefix, "*"), 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache scan failed", "pattern", IdeaKeyPrefix, "error", err)
		return
	}
	Invalidate(ctx, keys...)
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesActiveKey, StatsOverviewKey)
	InvalidateIdeaDetails(ctx)
}
