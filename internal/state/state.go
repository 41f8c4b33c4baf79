package state

import (
	"scpane/internal/domain"
)

type Focus int

const (
	FocusLocal Focus = iota
	FocusRemote
)

type Mode int

const (
	// ModeNormal has navigation and hotkeys active.
	ModeNormal Mode = iota
	// ModeFilter redirects text entry into a live listing filter;
	// hotkeys are suspended until Esc or Enter leaves the mode.
	ModeFilter
)

// PanelState is one side of the browser: a directory, its listing, a
// cursor and any live filter text. Mutated only by the UI goroutine.
type PanelState struct {
	Cwd      string
	Entries  []domain.FileEntry
	Selected int
	Filter   string
}

func NewPanel(cwd string) *PanelState {
	return &PanelState{Cwd: cwd}
}

// SetEntries replaces the listing, prepending the synthetic ".." entry
// when the directory has a parent, and re-clamps the cursor.
func (panel *PanelState) SetEntries(entries []domain.FileEntry, hasParent bool) {
	if hasParent {
		withParent := make([]domain.FileEntry, 0, len(entries)+1)
		withParent = append(withParent, domain.FileEntry{Name: domain.ParentEntry, IsDir: true})
		entries = append(withParent, entries...)
	}
	panel.Entries = entries
	panel.ClampSelection()
}

// ClampSelection keeps the cursor inside [0, len(entries)).
func (panel *PanelState) ClampSelection() {
	if len(panel.Entries) == 0 {
		panel.Selected = 0
		return
	}
	if panel.Selected >= len(panel.Entries) {
		panel.Selected = len(panel.Entries) - 1
	}
	if panel.Selected < 0 {
		panel.Selected = 0
	}
}

func (panel *PanelState) SelectedEntry() (domain.FileEntry, bool) {
	if len(panel.Entries) == 0 || panel.Selected < 0 || panel.Selected >= len(panel.Entries) {
		return domain.FileEntry{}, false
	}
	return panel.Entries[panel.Selected], true
}

func (panel *PanelState) MoveUp() {
	if panel.Selected > 0 {
		panel.Selected--
	}
}

func (panel *PanelState) MoveDown() {
	if len(panel.Entries) > 0 && panel.Selected < len(panel.Entries)-1 {
		panel.Selected++
	}
}

// Browser is the full navigation state machine: both panels, which one
// has focus, and the Normal/Filter mode. Filter text lives on the panel
// it was typed on so a retained filter never leaks across a focus switch.
type Browser struct {
	Local  *PanelState
	Remote *PanelState
	Focus  Focus
	Mode   Mode
}

func NewBrowser(localCwd, remoteCwd string) *Browser {
	return &Browser{
		Local:  NewPanel(localCwd),
		Remote: NewPanel(remoteCwd),
		Focus:  FocusRemote,
		Mode:   ModeNormal,
	}
}

func (browser *Browser) FocusedPanel() *PanelState {
	if browser.Focus == FocusLocal {
		return browser.Local
	}
	return browser.Remote
}

func (browser *Browser) ToggleFocus() {
	if browser.Focus == FocusLocal {
		browser.Focus = FocusRemote
	} else {
		browser.Focus = FocusLocal
	}
}

func (browser *Browser) EnterFilter() {
	browser.Mode = ModeFilter
	browser.FocusedPanel().Filter = ""
}

func (browser *Browser) LeaveFilter() {
	browser.Mode = ModeNormal
	browser.FocusedPanel().Filter = ""
}
