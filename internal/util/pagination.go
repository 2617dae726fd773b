package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate turns 1-based page/size query values into an offset and a
// clamped limit for the search backend.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}
