package stream

import (
	"context"
	"iter"

	"github.com/goliatone/go-qonto/core"
)

// Pages chains page fetches: page k+1 is requested only after the loop body
// for page k returns. Breaking out of the loop stops the chain. A failed fetch
// is yielded once as the final element.
func Pages[T any](ctx context.Context, fetch core.PageFetcher[T], initial core.Pagination) iter.Seq2[core.Page[T], error] {
	return func(yield func(core.Page[T], error) bool) {
		if ctx == nil {
			ctx = context.Background()
		}
		err := core.WalkPages(ctx, fetch, initial, func(page core.Page[T]) bool {
			return yield(page, nil)
		})
		if err != nil {
			yield(core.Page[T]{}, err)
		}
	}
}

// Items flattens a page chain into its items, in order.
func Items[T any](pages iter.Seq2[core.Page[T], error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for page, err := range pages {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}
