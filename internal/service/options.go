// Package service implements checklist, item and account operations on top
// of the repository layer.
package service

import (
	"context"

	"smartchecklist/internal/cache"
	"smartchecklist/internal/featureflags"
	"smartchecklist/internal/models"
	"smartchecklist/internal/observability"
	"smartchecklist/internal/validation"
)

// DefaultMaxTreeDepth bounds subtree walks when no limit is configured.
const DefaultMaxTreeDepth = 256

var serviceLog = observability.NewStructuredLogger()

// Options configures the checklist and item services.
type Options struct {
	MaxTreeDepth int
	Flags        *featureflags.Manager
}

func (o Options) maxDepth() int {
	if o.MaxTreeDepth < 1 {
		return DefaultMaxTreeDepth
	}
	return o.MaxTreeDepth
}

func validationError(err error) error {
	return models.NewValidationError(err.Error())
}

func invalidateTree(ctx context.Context, checklistID uint) {
	cache.InvalidateChecklistTree(ctx, checklistID)
}

func normalizeContent(content string) (string, error) {
	out, err := validation.NormalizeContent(content)
	if err != nil {
		return "", validationError(err)
	}
	return out, nil
}

func normalizeURL(raw string) (*string, error) {
	out, err := validation.NormalizeURL(raw)
	if err != nil {
		return nil, validationError(err)
	}
	return out, nil
}
