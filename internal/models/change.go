package models

// Change is a "something changed" notification for a table. No row payload
// is carried.
type Change struct {
	Table string
}
