package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// Record is a raw key-value row.
type Record struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
