// internal/pagination/window.go

// Package pagination computes the sliding window of page controls shown
// beneath a result.
package pagination

// DefaultMaxVisible is the number of page controls shown at once.
const DefaultMaxVisible = 5

// Page is one visible page control.
type Page struct {
	Index   int
	Label   int
	Current bool
}

// Window returns the half-open range [start, end) of page indices to display
// for the given cursor position. Out-of-range inputs are clamped rather than
// rejected.
func Window(cursor, total, maxVisible int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	if maxVisible <= 0 {
		maxVisible = DefaultMaxVisible
	}
	if total <= maxVisible {
		return 0, total
	}
	cursor = min(max(cursor, 0), total-1)

	half := maxVisible / 2
	halfUp := (maxVisible + 1) / 2
	switch {
	case cursor < half:
		return 0, maxVisible
	case cursor > total-halfUp:
		return total - maxVisible, total
	default:
		start = cursor - half
		return start, start + maxVisible
	}
}

// Pages expands Window into labelled page controls. Labels are 1-based.
func Pages(cursor, total, maxVisible int) []Page {
	start, end := Window(cursor, total, maxVisible)
	pages := make([]Page, 0, end-start)
	for i := start; i < end; i++ {
		pages = append(pages, Page{Index: i, Label: i + 1, Current: i == cursor})
	}
	return pages
}
