package bank

import "context"

type ListOpts struct {
	Q      string // case-insensitive match on title, tags and body
	Limit  int // 0 lists every question
	Offset int // applied only with a Limit
}

// Store is the question repository of one bank.
type Store interface {
	List(ctx context.Context, opts ListOpts) ([]Overview, error)
	Get(ctx context.Context, id int64) (Question, error)
	Save(ctx context.Context, q Question) (int64, error)
	Update(ctx context.Context, q Question) error
	Duplicate(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, ids []int64) (int, error)

	// Import inserts a batch atomically: either every question is stored or
	// none is.
	Import(ctx context.Context, qs []Question) ([]int64, error)
}
