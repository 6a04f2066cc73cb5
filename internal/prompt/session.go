package prompt

// Session is one dialog invocation. It becomes terminal once a result,
// including cancellation, has been recorded.
type Session struct {
	promptText string
	injected   string

	result *string
	auto   bool
	ended  bool

	// programmatic is set while the controller itself rewrites the buffer.
	programmatic bool
}

// Outcome is what the caller needs once the session has ended.
type Outcome struct {
	Content   string
	Submitted bool
	Auto      bool
}

func newSession(promptText, injected string) *Session {
	return &Session{promptText: promptText, injected: injected}
}

// PromptText returns the text shown above the buffer.
func (s *Session) PromptText() string { return s.promptText }

// Injected returns the piped content the session started with, if any.
func (s *Session) Injected() string { return s.injected }

// Ended reports whether the session reached a terminal state.
func (s *Session) Ended() bool { return s.ended }

// Outcome returns the result. Submitted is false for cancelled or still
// running sessions.
func (s *Session) Outcome() Outcome {
	if s.result == nil {
		return Outcome{}
	}
	return Outcome{Content: *s.result, Submitted: true, Auto: s.auto}
}

func (s *Session) end(result *string, auto bool) {
	s.result = result
	s.auto = auto
	s.ended = true
}
