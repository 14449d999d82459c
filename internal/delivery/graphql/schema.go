// Package graphql is the conference planner's GraphQL API: the embedded schema,
// its resolvers and the per-request loaders they resolve relations through.
package graphql

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"runtime/debug"

	graphql "github.com/graph-gophers/graphql-go"
)

// DefaultMaxParallelism bounds how many resolvers of one request run at once.
// Loaders only coalesce keys whose resolvers are running, so it stays well above
// the typical list length.
const DefaultMaxParallelism = 100

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition served by NewSchema.
func SDL() string {
	return schemaSDL
}

// NewSchema parses the schema and binds it to r.
func NewSchema(r *Resolver, maxParallelism int) (*graphql.Schema, error) {
	if maxParallelism <= 0 {
		maxParallelism = DefaultMaxParallelism
	}
	schema, err := graphql.ParseSchema(schemaSDL, r,
		graphql.MaxParallelism(maxParallelism),
		graphql.Logger(panicLogger{logger: r.logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger reports resolver panics, which the engine turns into field errors.
type panicLogger struct {
	logger *slog.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.ErrorContext(ctx, "graphql resolver panic", "panic", value, "stack", string(debug.Stack()))
}
