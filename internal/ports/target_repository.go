package ports

import (
	"context"

	"field-dispatch-service/internal/domain"
)

// Port: a boundary for retrieving Target entities from a data source.
type TargetRepository interface {
	// Retrieve all targets available for assignment.
	ListTargets(ctx context.Context) ([]*domain.Target, error)
	// Retrieve the targets with the given ids, in the given order. Unknown ids are skipped.
	GetTargets(ctx context.Context, ids []string) ([]*domain.Target, error)
}
