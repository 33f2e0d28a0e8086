package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/barysiuk/ananke/internal/engine"
)

func TestNewStatusBarModel(t *testing.T) {
	m := newStatusBarModel()
	if m.msg != "" {
		t.Errorf("msg = %q, want empty", m.msg)
	}
	if m.nextID != 0 {
		t.Errorf("nextID = %d, want 0", m.nextID)
	}
	if m.busy.Any() {
		t.Error("new status bar should not be busy")
	}
}

func TestStatusBar_ShowMsg(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind statusMsgKind
	}{
		{"success", "Installed pdf", statusSuccess},
		{"error", "fetch failed", statusError},
		{"warning", "Install cancelled", statusWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := newStatusBarModel().showMsg(tt.text, tt.kind)
			if m.msg != tt.text {
				t.Errorf("msg = %q, want %q", m.msg, tt.text)
			}
			if m.msgKind != tt.kind {
				t.Errorf("msgKind = %d, want %d", m.msgKind, tt.kind)
			}
			if cmd == nil {
				t.Error("showMsg should return an auto-dismiss cmd")
			}
			if !strings.Contains(m.renderLeft(), tt.text) {
				t.Errorf("renderLeft() = %q, should contain %q", m.renderLeft(), tt.text)
			}
		})
	}
}

func TestStatusBar_Update_DismissMatchingID(t *testing.T) {
	m := newStatusBarModel()
	m, _ = m.showMsg("hello", statusSuccess)

	m, _ = m.update(statusDismissMsg{id: m.msgID})
	if m.msg != "" {
		t.Errorf("msg = %q, want empty when dismiss ID matches", m.msg)
	}
}

func TestStatusBar_Update_DismissStaleID(t *testing.T) {
	m := newStatusBarModel()
	m, _ = m.showMsg("first", statusSuccess)
	staleID := m.msgID
	m, _ = m.showMsg("second", statusError)

	m, _ = m.update(statusDismissMsg{id: staleID})
	if m.msg != "second" {
		t.Errorf("msg = %q, want %q (stale dismiss should be ignored)", m.msg, "second")
	}
	if m.msgKind != statusError {
		t.Errorf("msgKind = %d, want statusError", m.msgKind)
	}
}

func TestStatusBar_SetBusy_StartsSpinnerOnce(t *testing.T) {
	m := newStatusBarModel()
	m, cmd := m.setBusy(engine.Busy{SyncSkillsLoading: true})
	if cmd == nil {
		t.Fatal("first busy flag should start the spinner")
	}
	m, cmd = m.setBusy(engine.Busy{SyncSkillsLoading: true, Saving: true})
	if cmd != nil {
		t.Error("spinner already running, want nil cmd")
	}
	if !m.spinning {
		t.Error("spinning should stay true")
	}
}

func TestStatusBar_SpinnerTick_StopsWhenIdle(t *testing.T) {
	m := newStatusBarModel()
	m, _ = m.setBusy(engine.Busy{SyncLoading: true})
	m, _ = m.setBusy(engine.Busy{})

	m, cmd := m.update(spinner.TickMsg{Time: time.Now()})
	if cmd != nil {
		t.Error("tick while idle should not schedule another tick")
	}
	if m.spinning {
		t.Error("spinner should stop once idle")
	}

	// A new operation restarts it.
	_, cmd = m.setBusy(engine.Busy{SyncMcpLoading: true})
	if cmd == nil {
		t.Error("busy again should restart the spinner")
	}
}

func TestStatusBar_View(t *testing.T) {
	t.Run("help only", func(t *testing.T) {
		m := newStatusBarModel().setWidth(80)
		if v := m.view("help text here"); !strings.Contains(v, "help text here") {
			t.Errorf("view() = %q, should contain help text", v)
		}
	})

	t.Run("message hides help", func(t *testing.T) {
		m := newStatusBarModel().setWidth(80)
		m, _ = m.showMsg("Installed pdf", statusSuccess)
		v := m.view("help text here")
		if !strings.Contains(v, "Installed pdf") {
			t.Errorf("view() = %q, should contain message", v)
		}
		if strings.Contains(v, "help text here") {
			t.Error("help text should be hidden when a message is active")
		}
	})

	t.Run("busy labels on the right", func(t *testing.T) {
		m := newStatusBarModel().setWidth(80)
		m, _ = m.setBusy(engine.Busy{SyncSkillsLoading: true, SyncMcpLoading: true})
		v := m.view("help")
		for _, want := range []string{"help", "syncing skills", "syncing MCP"} {
			if !strings.Contains(v, want) {
				t.Errorf("view() = %q, should contain %q", v, want)
			}
		}
	})
}

func TestBusyLabels(t *testing.T) {
	tests := []struct {
		busy engine.Busy
		want []string
	}{
		{engine.Busy{}, nil},
		{engine.Busy{SyncLoading: true}, []string{"fetching skill"}},
		{engine.Busy{Saving: true, SyncSkillsLoading: true}, []string{"syncing skills", "saving"}},
	}
	for _, tt := range tests {
		got := busyLabels(tt.busy)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("busyLabels(%+v) = %v, want %v", tt.busy, got, tt.want)
		}
	}
}
