package ids

import "github.com/segmentio/ksuid"

// New returns an opaque, k-sortable identifier for users and notes.
func New() string {
	return ksuid.New().String()
}
