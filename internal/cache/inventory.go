package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"smartchecklist/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix                = "user:%d"
	ChecklistTreeKeyPrefix       = "checklist:%d:tree:%d"
	ChecklistGenerationKeyPrefix = "checklist:%d:gen"
	RevokedTokenKeyPrefix        = "blacklist:%s"
)

const (
	UserTTL          = 5 * time.Minute
	ChecklistTreeTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// ChecklistTreeKey names the cached forest built while the checklist was at
// generation.
func ChecklistTreeKey(checklistID uint, generation int64) string {
	return fmt.Sprintf(ChecklistTreeKeyPrefix, checklistID, generation)
}

// ChecklistGenerationKey holds a counter bumped on every checklist mutation.
// It has no TTL; a reset counter could revive a tree cached under an old
// generation.
func ChecklistGenerationKey(checklistID uint) string {
	return fmt.Sprintf(ChecklistGenerationKeyPrefix, checklistID)
}

func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(RevokedTokenKeyPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// ChecklistGeneration returns the checklist's current tree generation.
// Read it before loading items: a tree built from rows read before a
// mutation is then stored under a generation no later reader asks for.
func ChecklistGeneration(ctx context.Context, checklistID uint) (int64, error) {
	if client == nil {
		return 0, ErrCacheDisabled
	}
	n, err := client.Get(ctx, ChecklistGenerationKey(checklistID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// InvalidateChecklistTree moves the checklist to a new generation and drops
// the tree cached under the previous one.
func InvalidateChecklistTree(ctx context.Context, checklistID uint) {
	if client == nil {
		return
	}
	gen, err := client.Incr(ctx, ChecklistGenerationKey(checklistID)).Result()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "checklist tree invalidation failed",
			slog.Uint64("checklist_id", uint64(checklistID)),
			slog.String("error", err.Error()),
		)
		return
	}
	client.Del(ctx, ChecklistTreeKey(checklistID, gen-1))
}
