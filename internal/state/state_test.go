package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scpane/internal/domain"
)

func entries(names ...string) []domain.FileEntry {
	out := make([]domain.FileEntry, len(names))
	for i, name := range names {
		out[i] = domain.FileEntry{Name: name}
	}
	return out
}

func TestSetEntriesPrependsParent(t *testing.T) {
	panel := NewPanel("/etc/ssh")
	panel.SetEntries(entries("sshd_config"), true)

	assert.Equal(t, domain.ParentEntry, panel.Entries[0].Name)
	assert.True(t, panel.Entries[0].IsDir)
	assert.Len(t, panel.Entries, 2)
}

func TestSetEntriesNoParentAtRoot(t *testing.T) {
	panel := NewPanel("/")
	panel.SetEntries(entries("etc", "var"), false)
	assert.Equal(t, "etc", panel.Entries[0].Name)
}

func TestSelectionClampedOnShrink(t *testing.T) {
	panel := NewPanel("/tmp")
	panel.SetEntries(entries("a", "b", "c", "d"), false)
	panel.Selected = 3

	panel.SetEntries(entries("a"), false)
	assert.Equal(t, 0, panel.Selected)

	panel.SetEntries(nil, false)
	assert.Equal(t, 0, panel.Selected)
	_, ok := panel.SelectedEntry()
	assert.False(t, ok)
}

func TestMoveBounds(t *testing.T) {
	panel := NewPanel("/tmp")
	panel.SetEntries(entries("a", "b"), false)

	panel.MoveUp()
	assert.Equal(t, 0, panel.Selected)
	panel.MoveDown()
	panel.MoveDown()
	assert.Equal(t, 1, panel.Selected)
}

func TestBrowserFocusToggle(t *testing.T) {
	browser := NewBrowser("/home/me", "/")
	assert.Equal(t, FocusRemote, browser.Focus)
	assert.Same(t, browser.Remote, browser.FocusedPanel())

	browser.ToggleFocus()
	assert.Equal(t, FocusLocal, browser.Focus)
	assert.Same(t, browser.Local, browser.FocusedPanel())
}

func TestFilterModeTransitions(t *testing.T) {
	browser := NewBrowser("/home/me", "/")
	browser.EnterFilter()
	assert.Equal(t, ModeFilter, browser.Mode)
	browser.FocusedPanel().Filter = "conf"
	browser.LeaveFilter()
	assert.Equal(t, ModeNormal, browser.Mode)
	assert.Empty(t, browser.Remote.Filter)
}

func TestFilterIsPerPanel(t *testing.T) {
	browser := NewBrowser("/home/me", "/")
	browser.EnterFilter()
	browser.FocusedPanel().Filter = "conf"
	browser.Mode = ModeNormal

	browser.ToggleFocus()
	assert.Empty(t, browser.FocusedPanel().Filter)
	assert.Equal(t, "conf", browser.Remote.Filter)
}
