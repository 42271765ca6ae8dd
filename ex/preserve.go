package ex

import (
	"github.com/xvi-go/xvi/preserve"
)

// Keystrokes is passed through to preserve.Preserve as is; cmd/xvi's
// composition layer does not update it, and the Safe policy used here
// does not consult it.
//
// doPreserve forces a preserve under the Safe policy regardless of
// Keystrokes, since an explicit ":preserve" is the user declaring now is
// the time, not a background heuristic deciding it.
func (h *Handler) doPreserve() error {
	if h.PreserveState == nil {
		h.PreserveState = &preserve.State{}
	}
	_, err := preserve.Preserve(h.Buf, h.PreserveState, h.Buf.Filename, preserve.Safe, h.Keystrokes)
	return err
}
