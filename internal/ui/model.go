package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"scpane/internal/domain"
	"scpane/internal/localfs"
	"scpane/internal/pathutil"
	"scpane/internal/state"
	"scpane/internal/transfer"
)

// tickInterval paces the aggregator: queued downloads are promoted and
// buffered worker events drained once per tick.
const tickInterval = 150 * time.Millisecond

// RemoteFS is the subset of the transport the panels need. Listing
// failures surface as empty directories, not errors. Invalidate drops
// any cached listing so the next List shells out again.
type RemoteFS interface {
	List(remotePath string) []domain.FileEntry
	FileSize(remotePath string) (int64, bool)
	Invalidate(remotePath string)
}

type Model struct {
	browser *state.Browser
	manager *transfer.Manager
	remote  RemoteFS
	keys    KeyMap

	theme      string
	showHidden bool
	target     string // user@host shown in the footer
	status     string
	showHelp   bool
	width      int
	height     int

	localViewTop  int
	remoteViewTop int

	// Unfiltered listings; the panels hold the filtered view.
	localAll  []domain.FileEntry
	remoteAll []domain.FileEntry
}

func NewModel(browser *state.Browser, manager *transfer.Manager, remote RemoteFS, theme, target string, showHidden bool) Model {
	return Model{
		browser:    browser,
		manager:    manager,
		remote:     remote,
		keys:       DefaultKeyMap(),
		theme:      theme,
		target:     target,
		showHidden: showHidden,
		status:     "Ready",
		width:      100,
		height:     30,
	}
}

func (model Model) Init() tea.Cmd {
	return tea.Batch(
		model.listLocalCmd(model.browser.Local.Cwd),
		model.listRemoteCmd(model.browser.Remote.Cwd),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(now time.Time) tea.Msg {
		return tickMsg(now)
	})
}

func (model Model) listLocalCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := localfs.ListDir(path)
		return localListingMsg{path: path, entries: entries, err: err}
	}
}

func (model Model) listRemoteCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return remoteListingMsg{path: path, entries: model.remote.List(path)}
	}
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.ensureVisible()
		return model, nil
	case tickMsg:
		return model.handleTick()
	case localListingMsg:
		if typed.err != nil {
			model.status = fmt.Sprintf("List error: %v", typed.err)
			return model, nil
		}
		changedDir := typed.path != model.browser.Local.Cwd
		model.localAll = typed.entries
		model.browser.Local.Cwd = typed.path
		model.applyLocal()
		if changedDir {
			model.browser.Local.Selected = 0
		}
		model.ensureVisible()
		return model, nil
	case remoteListingMsg:
		changedDir := typed.path != model.browser.Remote.Cwd
		model.remoteAll = typed.entries
		model.browser.Remote.Cwd = typed.path
		model.applyRemote()
		if changedDir {
			model.browser.Remote.Selected = 0
		}
		model.ensureVisible()
		return model, nil
	default:
		return model, nil
	}
}

// handleTick runs the transfer aggregator: promote queued downloads,
// drain worker events, and refresh the panel a completed job wrote into.
func (model Model) handleTick() (tea.Model, tea.Cmd) {
	model.manager.Tick()
	cmds := []tea.Cmd{tickCmd()}
	refreshLocal, refreshRemote := false, false
	for _, ev := range model.manager.Drain() {
		done, ok := ev.(transfer.Completed)
		if !ok {
			continue
		}
		if !done.Kind.IsDownload() && done.RemotePath != "" {
			// Drop the cache where the upload actually landed; the
			// operator may have navigated away while it ran. A failed
			// folder upload can still have written files.
			model.remote.Invalidate(pathutil.ParentRemote(done.RemotePath))
		}
		if done.Err != nil {
			model.status = fmt.Sprintf("%s failed: %s: %v", done.Kind, done.FileName, done.Err)
			continue
		}
		model.status = fmt.Sprintf("%s complete: %s", done.Kind, done.FileName)
		if done.Kind.IsDownload() {
			refreshLocal = true
		} else {
			refreshRemote = true
		}
	}
	if refreshLocal {
		cmds = append(cmds, model.listLocalCmd(model.browser.Local.Cwd))
	}
	if refreshRemote {
		cmds = append(cmds, model.listRemoteCmd(model.browser.Remote.Cwd))
	}
	return model, tea.Batch(cmds...)
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.browser.Mode == state.ModeFilter {
		return model.handleFilterKey(msg)
	}
	switch {
	case key.Matches(msg, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.showHelp = !model.showHelp
		return model, nil
	case key.Matches(msg, model.keys.Focus):
		model.browser.ToggleFocus()
		return model, nil
	case key.Matches(msg, model.keys.Up):
		model.browser.FocusedPanel().MoveUp()
		model.ensureVisible()
		return model, nil
	case key.Matches(msg, model.keys.Down):
		model.browser.FocusedPanel().MoveDown()
		model.ensureVisible()
		return model, nil
	case key.Matches(msg, model.keys.Enter):
		return model.openSelected()
	case key.Matches(msg, model.keys.Back):
		return model.openParent()
	case key.Matches(msg, model.keys.Download):
		return model.beginDownload()
	case key.Matches(msg, model.keys.Upload):
		return model.beginUpload()
	case key.Matches(msg, model.keys.Refresh):
		return model.refreshFocused()
	case key.Matches(msg, model.keys.Hidden):
		model.showHidden = !model.showHidden
		model.applyLocal()
		model.ensureVisible()
		return model, nil
	case key.Matches(msg, model.keys.Filter):
		model.browser.EnterFilter()
		model.applyFocused()
		model.status = "Filter: "
		return model, nil
	case key.Matches(msg, model.keys.Cancel):
		if model.browser.FocusedPanel().Filter != "" {
			model.browser.LeaveFilter()
			model.applyFocused()
			model.browser.FocusedPanel().Selected = 0
			model.status = "Filter cleared"
		}
		return model, nil
	default:
		return model, nil
	}
}

// handleFilterKey owns every keystroke while in filter mode; navigation
// hotkeys are suspended until Esc or Enter leaves the mode.
func (model Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		model.browser.LeaveFilter()
		model.applyFocused()
		model.browser.FocusedPanel().Selected = 0
		model.ensureVisible()
		model.status = "Filter cleared"
		return model, nil
	case tea.KeyEnter:
		// Keep the narrowed listing; Esc in normal mode clears it.
		model.browser.Mode = state.ModeNormal
		model.status = "Ready"
		return model, nil
	case tea.KeyBackspace, tea.KeyDelete:
		panel := model.browser.FocusedPanel()
		if panel.Filter != "" {
			runes := []rune(panel.Filter)
			panel.Filter = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		model.browser.FocusedPanel().Filter += string(msg.Runes)
	default:
		return model, nil
	}
	model.applyFocused()
	model.browser.FocusedPanel().Selected = 0
	model.ensureVisible()
	model.status = fmt.Sprintf("Filter: %s", model.browser.FocusedPanel().Filter)
	return model, nil
}

func (model Model) openSelected() (tea.Model, tea.Cmd) {
	panel := model.browser.FocusedPanel()
	entry, ok := panel.SelectedEntry()
	if !ok {
		return model, nil
	}
	if entry.IsParent() {
		return model.openParent()
	}
	if !entry.IsDir {
		return model, nil
	}
	if model.browser.Focus == state.FocusLocal {
		return model, model.listLocalCmd(filepath.Join(panel.Cwd, entry.Name))
	}
	return model, model.listRemoteCmd(pathutil.JoinRemote(panel.Cwd, entry.Name))
}

func (model Model) openParent() (tea.Model, tea.Cmd) {
	panel := model.browser.FocusedPanel()
	if model.browser.Focus == state.FocusLocal {
		parent := filepath.Dir(panel.Cwd)
		if parent == panel.Cwd {
			return model, nil
		}
		return model, model.listLocalCmd(parent)
	}
	if panel.Cwd == "/" {
		return model, nil
	}
	return model, model.listRemoteCmd(pathutil.ParentRemote(panel.Cwd))
}

// beginDownload queues the selected remote entry. Files join the bounded
// download queue; a folder starts one aggregate job immediately.
func (model Model) beginDownload() (tea.Model, tea.Cmd) {
	if model.browser.Focus != state.FocusRemote {
		model.status = "Select a remote file to download"
		return model, nil
	}
	entry, ok := model.browser.Remote.SelectedEntry()
	if !ok || entry.IsParent() {
		return model, nil
	}
	remotePath := pathutil.JoinRemote(model.browser.Remote.Cwd, entry.Name)
	destPath := pathutil.UniqueLocalPath(model.browser.Local.Cwd, entry.Name)
	if entry.IsDir {
		model.manager.StartFolderDownload(entry.Name, remotePath, destPath)
		model.status = fmt.Sprintf("Downloading folder %s", entry.Name)
		return model, nil
	}
	size, sized := model.remote.FileSize(remotePath)
	model.manager.EnqueueDownload(entry.Name, remotePath, destPath, size, sized)
	model.status = fmt.Sprintf("Queued download %s", entry.Name)
	return model, nil
}

func (model Model) beginUpload() (tea.Model, tea.Cmd) {
	if model.browser.Focus != state.FocusLocal {
		model.status = "Select a local file to upload"
		return model, nil
	}
	entry, ok := model.browser.Local.SelectedEntry()
	if !ok || entry.IsParent() {
		return model, nil
	}
	localPath := filepath.Join(model.browser.Local.Cwd, entry.Name)
	if entry.IsDir {
		model.manager.StartFolderUpload(entry.Name, localPath, model.browser.Remote.Cwd)
		model.status = fmt.Sprintf("Uploading folder %s", entry.Name)
		return model, nil
	}
	model.manager.StartUpload(entry.Name, localPath, model.browser.Remote.Cwd)
	model.status = fmt.Sprintf("Uploading %s", entry.Name)
	return model, nil
}

func (model Model) refreshFocused() (tea.Model, tea.Cmd) {
	if model.browser.Focus == state.FocusLocal {
		return model, model.listLocalCmd(model.browser.Local.Cwd)
	}
	model.remote.Invalidate(model.browser.Remote.Cwd)
	return model, model.listRemoteCmd(model.browser.Remote.Cwd)
}

func (model *Model) applyFocused() {
	if model.browser.Focus == state.FocusLocal {
		model.applyLocal()
	} else {
		model.applyRemote()
	}
}

func (model *Model) applyLocal() {
	entries := model.localAll
	if !model.showHidden {
		visible := make([]domain.FileEntry, 0, len(entries))
		for _, entry := range entries {
			if !strings.HasPrefix(entry.Name, ".") {
				visible = append(visible, entry)
			}
		}
		entries = visible
	}
	if model.browser.Local.Filter != "" {
		entries = domain.ApplyFilter(entries, model.browser.Local.Filter)
	}
	hasParent := filepath.Dir(model.browser.Local.Cwd) != model.browser.Local.Cwd
	model.browser.Local.SetEntries(entries, hasParent)
}

func (model *Model) applyRemote() {
	entries := model.remoteAll
	if model.browser.Remote.Filter != "" {
		entries = domain.ApplyFilter(entries, model.browser.Remote.Filter)
	}
	model.browser.Remote.SetEntries(entries, model.browser.Remote.Cwd != "/")
}

func (model *Model) ensureVisible() {
	model.localViewTop = scrollTop(model.browser.Local, model.localViewTop, model.listHeight())
	model.remoteViewTop = scrollTop(model.browser.Remote, model.remoteViewTop, model.listHeight())
}

func scrollTop(panel *state.PanelState, top, height int) int {
	if height <= 0 {
		return 0
	}
	if panel.Selected < top {
		top = panel.Selected
	}
	if panel.Selected >= top+height {
		top = panel.Selected - height + 1
	}
	maxTop := len(panel.Entries) - height
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top
}

func (model Model) listHeight() int {
	// Panel border, header line and the two footer lines.
	height := model.height - 7
	if height < 3 {
		return 3
	}
	return height
}
