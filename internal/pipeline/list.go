// internal/pipeline/list.go

// Package pipeline keeps the user-ordered list of executed statements.
// The list shares IDs with history entries but is ordered independently:
// moving a step never reorders the result history.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfRange is returned when a move addresses a position outside the list.
var ErrOutOfRange = errors.New("pipeline: index out of range")

// Step is one executed statement in the pipeline.
type Step struct {
	ID        int
	Statement string
}

// Label returns the step's display label.
func (s Step) Label() string { return Label(s.Statement) }

// Label derives a display label from the first word of a statement,
// upper-cased: "select * from orders" labels as "SELECT".
func Label(statement string) string {
	fields := strings.Fields(statement)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// List is an ordered, reorderable sequence of steps. It is not safe for
// concurrent use.
type List struct {
	steps []Step
}

// NewList returns a list seeded with steps, in order.
func NewList(steps ...Step) *List {
	l := &List{}
	l.steps = append(l.steps, steps...)
	return l
}

// Len returns the number of steps.
func (l *List) Len() int { return len(l.steps) }

// Prepend inserts step at the head of the list.
func (l *List) Prepend(step Step) {
	l.steps = append(l.steps, Step{})
	copy(l.steps[1:], l.steps)
	l.steps[0] = step
}

// MoveStep removes the step at from and reinserts it at to. Steps between the
// two positions shift by one.
func (l *List) MoveStep(from, to int) error {
	n := len(l.steps)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d -> %d of %d: %w", from, to, n, ErrOutOfRange)
	}
	if from == to {
		return nil
	}
	moved := l.steps[from]
	if from < to {
		copy(l.steps[from:to], l.steps[from+1:to+1])
	} else {
		copy(l.steps[to+1:from+1], l.steps[to:from])
	}
	l.steps[to] = moved
	return nil
}

// IndexOf returns the position of the step with id, or -1.
func (l *List) IndexOf(id int) int {
	for i, s := range l.steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Steps returns a copy of the steps in their current order.
func (l *List) Steps() []Step {
	out := make([]Step, len(l.steps))
	copy(out, l.steps)
	return out
}

// Clear removes every step.
func (l *List) Clear() {
	l.steps = nil
}
