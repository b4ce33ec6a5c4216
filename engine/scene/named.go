package scene

import (
	"fmt"
	"slices"
)

// NamedList is an ordered sequence of records paired index-for-index with display names.
// Every mutation keeps the two sequences the same length.
type NamedList[T any] struct {
	records []T
	names   []string
}

// NewNamedList builds a list from parallel records and names. Missing names are left empty and
// surplus names are dropped, so the result is always consistent.
//
// Parameters:
//   - records: the records
//   - names: the display names, normally len(records) of them
//
// Returns:
//   - NamedList[T]: the list, holding copies of both slices
func NewNamedList[T any](records []T, names []string) NamedList[T] {
	l := NamedList[T]{
		records: slices.Clone(records),
		names:   make([]string, len(records)),
	}
	copy(l.names, names)
	return l
}

// Append adds a record at the end of the list.
//
// Parameters:
//   - name: the display name
//   - rec: the record
//
// Returns:
//   - int: the index of the new record
func (l *NamedList[T]) Append(name string, rec T) int {
	l.records = append(l.records, rec)
	l.names = append(l.names, name)
	return len(l.records) - 1
}

// Get returns the record and name at index i.
func (l *NamedList[T]) Get(i int) (T, string, error) {
	if err := l.check(i); err != nil {
		var zero T
		return zero, "", err
	}
	return l.records[i], l.names[i], nil
}

// Set replaces the record at index i, keeping its name.
func (l *NamedList[T]) Set(i int, rec T) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.records[i] = rec
	return nil
}

// Rename replaces the name at index i. Names are free text and are not validated.
func (l *NamedList[T]) Rename(i int, name string) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.names[i] = name
	return nil
}

// Delete removes the record and name at index i, shifting later entries down by one.
func (l *NamedList[T]) Delete(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.records = slices.Delete(l.records, i, i+1)
	l.names = slices.Delete(l.names, i, i+1)
	return nil
}

// Len returns the number of entries.
func (l *NamedList[T]) Len() int {
	return len(l.records)
}

// Records returns a copy of the records in order.
func (l *NamedList[T]) Records() []T {
	return slices.Clone(l.records)
}

// Names returns a copy of the names in order.
func (l *NamedList[T]) Names() []string {
	return slices.Clone(l.names)
}

// view exposes the backing records without copying. Callers must not retain it.
func (l *NamedList[T]) view() []T {
	return l.records
}

func (l *NamedList[T]) check(i int) error {
	if i < 0 || i >= len(l.records) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(l.records))
	}
	return nil
}
