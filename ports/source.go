package ports

import (
	"context"

	"pulse311/domain/record"
)

// RecordSource supplies the immutable record table the dashboard runs
// on. Implementations load eagerly and fail fast: a missing or
// malformed backing file is a startup error, never a partial load.
type RecordSource interface {
	// LoadRecords returns the full ordered record set. The returned
	// slice must not be mutated by callers.
	LoadRecords(ctx context.Context) ([]record.Record, error)
}
