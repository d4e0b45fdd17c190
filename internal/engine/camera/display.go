package camera

// Display reports the current drawable size. It is read synchronously
// whenever the projection is rebuilt.
type Display interface {
	Size() (width, height int)
}

// ResizeSignal carries "the resolution changed" notifications. Pending
// notifications coalesce into one.
type ResizeSignal chan struct{}

// NewResizeSignal creates a ResizeSignal with room for one pending notification.
func NewResizeSignal() ResizeSignal {
	return make(ResizeSignal, 1)
}

// Notify records a resolution change without blocking.
func (s ResizeSignal) Notify() {
	select {
	case s <- struct{}{}:
	default:
	}
}

// drain consumes pending notifications and reports whether there were any.
func (s ResizeSignal) drain() bool {
	changed := false
	for {
		select {
		case <-s:
			changed = true
		default:
			return changed
		}
	}
}
