package ui

import (
	"context"
	"strings"
	"time"

	"github.com/mcao2/postcheck/internal/compliance"
	"github.com/mcao2/postcheck/internal/media"
)

// Tab identifies one of the top-level views
type Tab int

const (
	TabDashboard Tab = iota
	TabCaptionTester
	TabHistory
	TabPolicy
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabCaptionTester:
		return "Caption Tester"
	case TabHistory:
		return "History"
	case TabPolicy:
		return "Policy Guide"
	default:
		return "Unknown"
	}
}

// Heading is the title shown above the tab's content
func (t Tab) Heading() string {
	switch t {
	case TabDashboard:
		return "Multimodal Analysis"
	case TabCaptionTester:
		return "Test Caption Safety"
	case TabHistory:
		return "Analysis History"
	case TabPolicy:
		return "TikTok Shop Policy Reference"
	default:
		return ""
	}
}

// ViewState is the request state of a view that can run a check.
type ViewState struct {
	Result *compliance.Result
	Busy   bool
	Err    string

	seq    uint64
	cancel context.CancelFunc
}

// accepts reports whether a reply tagged seq belongs to the request
// currently in flight.
func (v *ViewState) accepts(seq uint64) bool {
	return v.Busy && v.seq == seq
}

// finish releases the in-flight request without touching the result.
func (v *ViewState) finish() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.Busy = false
}

// reset cancels anything in flight and forgets the result and error.
func (v *ViewState) reset() {
	v.finish()
	v.Result = nil
	v.Err = ""
}

// Session is the in-memory state of one run of the program. Nothing in it
// outlives the process.
type Session struct {
	Tab     Tab
	Media   *media.Media
	Caption string
	Script  string

	Dashboard ViewState
	Tester    ViewState

	seq uint64
}

// SetMedia replaces the selected media, dropping the previous reference.
func (s *Session) SetMedia(m *media.Media) {
	s.Media = m
}

func (s *Session) ClearMedia() {
	s.Media = nil
}

// HasInput reports whether at least one of media, caption or script is
// present. Whitespace-only text does not count.
func (s *Session) HasInput() bool {
	return s.Media != nil || strings.TrimSpace(s.Caption) != "" || strings.TrimSpace(s.Script) != ""
}

// CanTestCaption reports whether the caption tester trigger is enabled.
func (s *Session) CanTestCaption() bool {
	return !s.Tester.Busy && strings.TrimSpace(s.Caption) != ""
}

// SwitchTab activates t. Any change of tab cancels both views' requests and
// clears their results and errors. It reports whether the tab changed.
func (s *Session) SwitchTab(t Tab) bool {
	if t < 0 || t >= tabCount || t == s.Tab {
		return false
	}
	s.Dashboard.reset()
	s.Tester.reset()
	s.Tab = t
	return true
}

// CancelAll aborts every in-flight request.
func (s *Session) CancelAll() {
	s.Dashboard.finish()
	s.Tester.finish()
}

// begin marks v busy under a fresh sequence number and returns the context
// the request must run under.
func (s *Session) begin(v *ViewState, timeout time.Duration) (context.Context, uint64) {
	v.finish()
	s.seq++

	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	v.seq = s.seq
	v.cancel = cancel
	v.Busy = true
	v.Err = ""
	return ctx, v.seq
}
