package util

import "github.com/samber/mo"

// Trail records the screens walked through so back navigation can retrace them.
// Revisiting the latest screen does not add a step.
type Trail[T comparable] struct {
	steps []T
}

// Visit records s as the latest step.
func (t *Trail[T]) Visit(s T) {
	if n := len(t.steps); n > 0 && t.steps[n-1] == s {
		return
	}
	t.steps = append(t.steps, s)
}

// Back drops the latest step and returns it, or None at the start of the trail.
func (t *Trail[T]) Back() mo.Option[T] {
	n := len(t.steps)
	if n == 0 {
		return mo.None[T]()
	}
	s := t.steps[n-1]
	t.steps = t.steps[:n-1]
	return mo.Some(s)
}

func (t *Trail[T]) Len() int {
	return len(t.steps)
}
