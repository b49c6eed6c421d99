package controller

import (
	"github.com/mwiater/promptsql/internal/history"
	"github.com/mwiater/promptsql/internal/pagination"
	"github.com/mwiater/promptsql/internal/pipeline"
)

// View is the snapshot a renderer reads after every mutation.
type View struct {
	State      State
	Current    history.Entry
	HasCurrent bool
	Cursor     int
	Total      int
	Pages      []pagination.Page
	Steps      []pipeline.Step
	Message    string
	Loading    bool
	NearLimit  bool
}

// View builds a fresh snapshot. The page window is recomputed on every call.
func (c *Controller) View() View {
	current, ok := c.store.Current()
	return View{
		State:      c.state,
		Current:    current,
		HasCurrent: ok,
		Cursor:     c.store.Cursor(),
		Total:      c.store.Len(),
		Pages:      pagination.Pages(c.store.Cursor(), c.store.Len(), c.maxVisible),
		Steps:      c.steps.Steps(),
		Message:    c.message,
		Loading:    c.loading,
		NearLimit:  c.nearLimit,
	}
}

// SetCursor selects the result at index, clamped into range. It is a no-op
// while the store is empty.
func (c *Controller) SetCursor(index int) {
	n := c.store.Len()
	if n == 0 {
		return
	}
	index = min(max(index, 0), n-1)
	// index is in range, so the store cannot reject it.
	_ = c.store.SetCursor(index)
}

// Prev selects the next more recent result.
func (c *Controller) Prev() { c.SetCursor(c.store.Cursor() - 1) }

// Next selects the next older result.
func (c *Controller) Next() { c.SetCursor(c.store.Cursor() + 1) }

// RemoveCurrent deletes the displayed result. The pipeline is left as is.
func (c *Controller) RemoveCurrent() {
	if c.store.Len() == 0 {
		return
	}
	_ = c.store.RemoveAt(c.store.Cursor())
}

// ClearAll deletes every stored result. The pipeline is left as is.
func (c *Controller) ClearAll() {
	c.store.ClearAll()
}

// MoveStep reorders the pipeline. The result history keeps its order.
func (c *Controller) MoveStep(from, to int) error {
	return c.steps.MoveStep(from, to)
}

// DismissNotice hides the near-limit notice until it is raised again.
func (c *Controller) DismissNotice() {
	c.nearLimit = false
}

// ClearMessage hides the current message.
func (c *Controller) ClearMessage() {
	c.message = ""
}
