package models

import "errors"

var (
	// ErrItemNotFound is returned when an item id does not resolve to a reviewable item
	ErrItemNotFound = errors.New("item not found")
	// ErrConcurrentModification is returned when a progress record changed between read and write
	ErrConcurrentModification = errors.New("learning progress was modified concurrently")
)
