package core

// pageFromMeta maps the list meta block onto a Page around already converted
// items. Absent next/prev pages are not errors.
func pageFromMeta[T any](items []T, meta apiMeta) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := Page[T]{
		Items:      items,
		PageIndex:  meta.CurrentPage,
		TotalPages: meta.TotalPages,
		TotalItems: meta.TotalCount,
	}
	if meta.NextPage != nil {
		page.NextPagination = &Pagination{PageIndex: *meta.NextPage, ItemsPerPage: meta.PerPage}
	}
	if meta.PrevPage != nil {
		page.PreviousPagination = &Pagination{PageIndex: *meta.PrevPage, ItemsPerPage: meta.PerPage}
	}
	return page
}
