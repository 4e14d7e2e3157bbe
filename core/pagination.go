package core

const (
	FirstPageIndex      = 1
	DefaultItemsPerPage = 100
)

// Pagination selects a page of a list operation. Page indices are 1 based.
type Pagination struct {
	PageIndex    int
	ItemsPerPage int
}

func FirstPage(itemsPerPage int) Pagination {
	return Pagination{PageIndex: FirstPageIndex, ItemsPerPage: itemsPerPage}
}

// normalized clamps the page index to the first page and fills in the
// default page size.
func (p Pagination) normalized(defaultItemsPerPage int) Pagination {
	if p.PageIndex < FirstPageIndex {
		p.PageIndex = FirstPageIndex
	}
	if p.ItemsPerPage <= 0 {
		p.ItemsPerPage = defaultItemsPerPage
	}
	if p.ItemsPerPage <= 0 {
		p.ItemsPerPage = DefaultItemsPerPage
	}
	return p
}

// Page is one page of results. A nil NextPagination is the only signal that
// there are no further pages.
type Page[T any] struct {
	Items              []T
	PageIndex          int
	NextPagination     *Pagination
	PreviousPagination *Pagination
	TotalPages         int
	TotalItems         int
}

func (p Page[T]) HasNext() bool {
	return p.NextPagination != nil
}
