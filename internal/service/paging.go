package service

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePage clamps list-window arguments: page is floored to 1, limit
// is clamped to [1, 100] with a default of 20. Every list operation goes
// through this before touching the store.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func pageOffset(page, limit int) int {
	return (page - 1) * limit
}
