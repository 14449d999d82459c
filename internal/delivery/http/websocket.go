package http

import (
	"context"
	"database/sql"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"

	"conferenceplanner/internal/unitofwork"
)

// operationService executes the operations of a websocket connection. The
// transport builds the connection context from scratch, so each operation gets
// its own unit of work and loaders here, the same as a POST to /graphql.
type operationService struct {
	db       *sql.DB
	schema   *graphql.Schema
	resolver LoaderAttacher
	logger   *slog.Logger
}

func (s *operationService) Subscribe(ctx context.Context, document, operationName string, variables map[string]interface{}) (<-chan interface{}, error) {
	scope := unitofwork.New(s.db)
	ctx, release := s.resolver.WithLoaders(unitofwork.WithScope(ctx, scope))
	done := func() {
		release()
		if err := scope.Close(); err != nil {
			s.logger.ErrorContext(ctx, "close unit of work", "error", err)
		}
	}

	payloads, err := s.schema.Subscribe(ctx, document, operationName, variables)
	if err != nil {
		done()
		return nil, err
	}

	out := make(chan interface{})
	go func() {
		defer close(out)
		defer done()
		for p := range payloads {
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
