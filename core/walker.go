package core

import "context"

// PageFetcher fetches one page of a paged list operation.
type PageFetcher[T any] func(ctx context.Context, pagination Pagination) (Page[T], error)

// WalkPages fetches pages one after the other, following NextPagination until
// it is nil or visit returns false. The first error stops the walk.
func WalkPages[T any](ctx context.Context, fetch PageFetcher[T], initial Pagination, visit func(Page[T]) bool) error {
	ctx = normalizeContext(ctx)
	next := &initial
	for next != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := fetch(ctx, *next)
		if err != nil {
			return err
		}
		if !visit(page) {
			return nil
		}
		next = page.NextPagination
	}
	return nil
}

// CollectAll concatenates the items of every page in order. On failure the
// items gathered so far are discarded.
func CollectAll[T any](ctx context.Context, fetch PageFetcher[T], initial Pagination) ([]T, error) {
	items := []T{}
	err := WalkPages(ctx, fetch, initial, func(page Page[T]) bool {
		items = append(items, page.Items...)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func TransactionPages(transactions Transactions, req TransactionListRequest) PageFetcher[Transaction] {
	return func(ctx context.Context, pagination Pagination) (Page[Transaction], error) {
		paged := req
		paged.Pagination = pagination
		return transactions.GetTransactionList(ctx, paged)
	}
}

func MembershipPages(memberships Memberships) PageFetcher[Membership] {
	return memberships.GetMembershipList
}

func LabelPages(labels Labels) PageFetcher[Label] {
	return labels.GetLabelList
}
