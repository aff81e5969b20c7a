package template

import (
	"errors"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrLastTask        = errors.New("a stage must keep at least one task")
)

// Move returns a copy of list with the element at from relocated to position
// to. The caller renumbers order fields afterwards; Move itself is a pure
// array operation scoped to one stage's list.
func Move[T any](list []T, from, to int) ([]T, error) {
	n := len(list)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, ErrIndexOutOfRange
	}
	out := make([]T, 0, n)
	out = append(out, list...)
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	// Insert at the target position in the shortened slice.
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out, nil
}

// Remove returns a copy of list without the element at idx. It refuses to
// empty the list: every stage retains at least one task.
func Remove[T any](list []T, idx int) ([]T, error) {
	if idx < 0 || idx >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	if len(list) == 1 {
		return nil, ErrLastTask
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out, nil
}
