package datastore

type ListOptions struct {
	Limit  int
	Offset int
}

const DefaultLimit = 1000

// ParseListOptions normalizes paging input. A zero limit means DefaultLimit
// and a negative limit means no limit at all.
func ParseListOptions(limit, offset int) ListOptions {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 {
		limit = -1
		offset = 0
	}
	if offset < 0 {
		offset = 0
	}
	return ListOptions{Limit: limit, Offset: offset}
}
