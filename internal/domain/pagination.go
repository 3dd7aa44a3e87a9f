package domain

// PaginationParams selects one page of an already computed discovery list.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Bounds returns the [start, end) slice indexes of the page within a list of
// total items. A page past the end yields start == end == total.
func (p PaginationParams) Bounds(total int) (start, end int) {
	if p.Page > 1 && p.PageSize > 0 {
		start = min((p.Page-1)*p.PageSize, total)
	}
	end = min(start+max(p.PageSize, 0), total)
	return start, end
}
