package httpapi

import (
	"context"
	"database/sql"

	"jobsearcher/internal/events"
	"jobsearcher/internal/pipeline"
)

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub

	// RunOnce triggers a pipeline pass (inject for testability).
	RunOnce func(ctx context.Context) (pipeline.Summary, error)
}
