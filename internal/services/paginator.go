package services

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Page is one slice of a reverse-chronological collection. NextCursor is the
// id of the last item when more rows follow, nil otherwise.
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor"`
}

// NormalizeLimit clamps a requested page size into [1, MaxPageSize].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}

// BuildPage turns rows fetched with limit+1 into a page of views.
func BuildPage[R, T any](rows []R, limit int, id func(R) string, view func(R) T) Page[T] {
	var next *string
	if len(rows) > limit {
		rows = rows[:limit]
		cursor := id(rows[len(rows)-1])
		next = &cursor
	}
	items := make([]T, len(rows))
	for i, r := range rows {
		items[i] = view(r)
	}
	return Page[T]{Items: items, NextCursor: next}
}

// EmptyPage is returned by listing reads that degrade on failure.
func EmptyPage[T any]() Page[T] {
	return Page[T]{Items: []T{}}
}
