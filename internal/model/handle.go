package model

import "fmt"

// Handle is a generation-checked reference into an arena.
// The zero Handle never resolves.
type Handle struct {
	Index uint32
	Gen   uint32
}

// NoHandle is the empty reference.
var NoHandle = Handle{}

// IsZero reports whether the handle refers to nothing.
func (h Handle) IsZero() bool {
	return h.Gen == 0
}

func (h Handle) String() string {
	if h.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%d#%d", h.Index, h.Gen)
}
