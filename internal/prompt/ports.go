package prompt

import "time"

// Buffer is the editable text surface the controller reads and writes.
type Buffer interface {
	Value() string
	SetValue(text string)
	// SelectAll marks the whole content selected with the cursor at its end.
	SelectAll()
	// SetPlaceholder toggles placeholder styling for the current content.
	SetPlaceholder(on bool)
}

// Surface is the part of the dialog outside the text buffer.
type Surface interface {
	SetSubmitLabel(label string)
	Warn(message string)
}

// Scheduler runs callbacks on the event loop after a delay. The returned
// cancel func guarantees fn is not invoked if called before delivery.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}
