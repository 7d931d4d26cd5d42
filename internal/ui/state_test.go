package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcao2/postcheck/internal/compliance"
	"github.com/mcao2/postcheck/internal/media"
)

func TestTabString(t *testing.T) {
	tests := []struct {
		tab  Tab
		want string
	}{
		{TabDashboard, "Dashboard"},
		{TabCaptionTester, "Caption Tester"},
		{TabHistory, "History"},
		{TabPolicy, "Policy Guide"},
		{Tab(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.tab.String(); got != tt.want {
			t.Errorf("Tab(%d).String() = %q, want %q", tt.tab, got, tt.want)
		}
	}
}

func TestSessionSwitchTab(t *testing.T) {
	var s Session
	s.Dashboard.Result = &compliance.Result{}
	s.Dashboard.Err = "old"
	s.Tester.Result = &compliance.Result{}

	if s.SwitchTab(TabDashboard) {
		t.Error("switching to the active tab should be a no-op")
	}
	if s.Dashboard.Result == nil {
		t.Error("no-op switch must keep the result")
	}

	if !s.SwitchTab(TabPolicy) {
		t.Fatal("expected tab change")
	}
	if s.Dashboard.Result != nil || s.Tester.Result != nil || s.Dashboard.Err != "" {
		t.Errorf("expected both views cleared, got %+v / %+v", s.Dashboard, s.Tester)
	}

	if s.SwitchTab(Tab(-1)) || s.SwitchTab(tabCount) {
		t.Error("out-of-range tabs must be rejected")
	}
	if s.Tab != TabPolicy {
		t.Errorf("expected tab unchanged, got %v", s.Tab)
	}
}

func TestSessionBegin(t *testing.T) {
	var s Session

	ctx1, seq1 := s.begin(&s.Dashboard, 0)
	if !s.Dashboard.accepts(seq1) {
		t.Error("expected the first request accepted")
	}

	ctx2, seq2 := s.begin(&s.Tester, 0)
	if seq2 == seq1 {
		t.Error("sequence numbers must differ across requests")
	}
	if s.Dashboard.accepts(seq2) {
		t.Error("dashboard must not accept the tester's sequence")
	}

	s.SwitchTab(TabHistory)
	for i, ctx := range []context.Context{ctx1, ctx2} {
		if !errors.Is(ctx.Err(), context.Canceled) {
			t.Errorf("context %d: expected cancelled, got %v", i+1, ctx.Err())
		}
	}
	if s.Dashboard.accepts(seq1) || s.Tester.accepts(seq2) {
		t.Error("replies after a tab switch must be rejected")
	}
}

func TestSessionBeginTimeout(t *testing.T) {
	var s Session
	ctx, _ := s.begin(&s.Dashboard, time.Minute)

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if time.Until(deadline) > time.Minute {
		t.Errorf("deadline too far out: %v", deadline)
	}

	ctx, _ = s.begin(&s.Tester, 0)
	if _, ok := ctx.Deadline(); ok {
		t.Error("zero timeout must not set a deadline")
	}
	s.CancelAll()
}

func TestSessionHasInput(t *testing.T) {
	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{"empty", Session{}, false},
		{"whitespace", Session{Caption: " ", Script: "\n"}, false},
		{"caption", Session{Caption: "x"}, true},
		{"script", Session{Script: "x"}, true},
		{"media", Session{Media: &media.Media{Name: "a.mp4"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.HasInput(); got != tt.want {
				t.Errorf("HasInput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionCanTestCaption(t *testing.T) {
	s := Session{Caption: "hello"}
	if !s.CanTestCaption() {
		t.Error("expected enabled with a caption")
	}
	s.Tester.Busy = true
	if s.CanTestCaption() {
		t.Error("expected disabled while busy")
	}
	s = Session{Caption: "   "}
	if s.CanTestCaption() {
		t.Error("expected disabled for a blank caption")
	}
}

func TestSessionMedia(t *testing.T) {
	var s Session
	first := &media.Media{Name: "a.mp4"}
	second := &media.Media{Name: "b.mp4"}

	s.SetMedia(first)
	s.SetMedia(second)
	if s.Media != second {
		t.Error("expected the replacement to win")
	}
	s.ClearMedia()
	if s.Media != nil {
		t.Error("expected media cleared")
	}
}
