package graphql

import (
	"context"
	"fmt"

	"conferenceplanner/internal/domain"
)

type pageArgs struct {
	Page     *int32
	PageSize *int32
}

func (a pageArgs) params() domain.PaginationParams {
	return domain.NewPaginationParams(int32Value(a.Page), int32Value(a.PageSize))
}

// pageResolver is an offset page of T.
type pageResolver[T any] struct {
	nodes  []T
	params domain.PaginationParams
	total  int
}

func (p *pageResolver[T]) Nodes() []T        { return p.nodes }
func (p *pageResolver[T]) Page() int32       { return clampInt32(p.params.Page) }
func (p *pageResolver[T]) PageSize() int32   { return clampInt32(p.params.PageSize) }
func (p *pageResolver[T]) TotalCount() int32 { return clampInt32(p.total) }
func (p *pageResolver[T]) TotalPages() int32 {
	return clampInt32(p.params.TotalPages(p.total))
}

// loadPage fetches one page and the total count and wraps every row.
func loadPage[E any, T any](
	ctx context.Context,
	params domain.PaginationParams,
	list func(context.Context, domain.PaginationParams) ([]*E, error),
	count func(context.Context) (int, error),
	wrap func(*E) T,
) (*pageResolver[T], error) {
	rows, err := list(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list page: %w", err)
	}
	total, err := count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	nodes := make([]T, len(rows))
	for i, row := range rows {
		nodes[i] = wrap(row)
	}
	return &pageResolver[T]{nodes: nodes, params: params, total: total}, nil
}
