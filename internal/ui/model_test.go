package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scpane/internal/domain"
	"scpane/internal/state"
	"scpane/internal/transfer"
)

type fakeRemote struct {
	listings    map[string][]domain.FileEntry
	sizes       map[string]int64
	invalidated []string
}

func (fake *fakeRemote) List(remotePath string) []domain.FileEntry {
	return fake.listings[remotePath]
}

func (fake *fakeRemote) FileSize(remotePath string) (int64, bool) {
	size, ok := fake.sizes[remotePath]
	return size, ok
}

func (fake *fakeRemote) Invalidate(remotePath string) {
	fake.invalidated = append(fake.invalidated, remotePath)
}

func (fake *fakeRemote) Get(remotePath, localPath string) error { return nil }
func (fake *fakeRemote) Put(localPath, remotePath string) error { return nil }
func (fake *fakeRemote) MkdirParents(remotePath string) error   { return nil }

func newTestModel(t *testing.T, listings map[string][]domain.FileEntry) Model {
	t.Helper()
	fake := &fakeRemote{listings: listings, sizes: map[string]int64{}}
	browser := state.NewBrowser(t.TempDir(), "/")
	model := NewModel(browser, transfer.NewManager(fake), fake, "dark", "root@test", false)
	return applyMsg(t, model, remoteListingMsg{path: "/", entries: listings["/"]})
}

func applyMsg(t *testing.T, model Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := model.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func keyRunes(runes string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(runes)}
}

func remoteNames(model Model) []string {
	names := make([]string, 0, len(model.browser.Remote.Entries))
	for _, entry := range model.browser.Remote.Entries {
		names = append(names, entry.Name)
	}
	return names
}

func TestFilterNarrowsAndEscRestores(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{
		"/": {{Name: "data", IsDir: true}, {Name: "config"}, {Name: "readme"}},
	})
	model.browser.Remote.Selected = 2

	model = applyMsg(t, model, keyRunes("/"))
	assert.Equal(t, state.ModeFilter, model.browser.Mode)

	model = applyMsg(t, model, keyRunes("c"))
	model = applyMsg(t, model, keyRunes("o"))
	assert.Equal(t, "co", model.browser.Remote.Filter)
	assert.Equal(t, []string{"config"}, remoteNames(model))
	assert.Equal(t, 0, model.browser.Remote.Selected)

	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, state.ModeNormal, model.browser.Mode)
	assert.Equal(t, []string{"data", "config", "readme"}, remoteNames(model))
	assert.Equal(t, 0, model.browser.Remote.Selected)
}

func TestFilterEnterKeepsNarrowedListing(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{
		"/": {{Name: "config"}, {Name: "readme"}},
	})

	model = applyMsg(t, model, keyRunes("/"))
	model = applyMsg(t, model, keyRunes("c"))
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, state.ModeNormal, model.browser.Mode)
	assert.Equal(t, []string{"config"}, remoteNames(model))

	// Esc back in normal mode clears the retained filter.
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []string{"config", "readme"}, remoteNames(model))
}

func TestFilterSuspendsHotkeys(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{
		"/": {{Name: "docs", IsDir: true}},
	})
	model = applyMsg(t, model, keyRunes("/"))
	model = applyMsg(t, model, keyRunes("d"))
	model = applyMsg(t, model, keyRunes("q"))

	assert.Equal(t, "dq", model.browser.Remote.Filter)
	assert.Empty(t, model.manager.Active())
}

func TestRetainedFilterStaysOnItsPanel(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{
		"/": {{Name: "config"}, {Name: "readme"}},
	})
	localDir := model.browser.Local.Cwd
	model = applyMsg(t, model, localListingMsg{
		path:    localDir,
		entries: []domain.FileEntry{{Name: "cabinet"}, {Name: "notes"}},
	})

	// Narrow the remote panel and keep the filter with Enter.
	model = applyMsg(t, model, keyRunes("/"))
	model = applyMsg(t, model, keyRunes("c"))
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"config"}, remoteNames(model))

	// Switching panels and toggling hidden re-applies local listings;
	// the remote filter must not narrow them.
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model = applyMsg(t, model, keyRunes("."))
	model = applyMsg(t, model, keyRunes("."))
	var names []string
	for _, entry := range model.browser.Local.Entries {
		names = append(names, entry.Name)
	}
	assert.Contains(t, names, "notes")
	assert.Contains(t, names, "cabinet")

	// The remote panel keeps its own narrowed view.
	assert.Equal(t, []string{"config"}, remoteNames(model))

	// Esc on the local panel is a no-op; back on remote it clears.
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []string{"config"}, remoteNames(model))
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []string{"config", "readme"}, remoteNames(model))
}

func TestTabTogglesFocus(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{"/": nil})
	assert.Equal(t, state.FocusRemote, model.browser.Focus)
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, state.FocusLocal, model.browser.Focus)
}

func TestEnterDescendsAndBackReturns(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{
		"/":    {{Name: "etc", IsDir: true}},
		"/etc": {{Name: "ssh", IsDir: true}},
	})

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	require.NotNil(t, cmd)
	msg := cmd()
	listing, ok := msg.(remoteListingMsg)
	require.True(t, ok)
	assert.Equal(t, "/etc", listing.path)

	model = applyMsg(t, model, listing)
	assert.Equal(t, "/etc", model.browser.Remote.Cwd)
	assert.Equal(t, []string{"..", "ssh"}, remoteNames(model))

	// ".." navigates back to the parent.
	model.browser.Remote.Selected = 0
	updated, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	require.NotNil(t, cmd)
	parent, ok := cmd().(remoteListingMsg)
	require.True(t, ok)
	assert.Equal(t, "/", parent.path)
}

func TestDownloadKeyQueuesSelectedFile(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{
		"/": {{Name: "notes.txt"}},
	})
	model = applyMsg(t, model, keyRunes("d"))

	assert.Equal(t, 1, model.manager.QueuedCount())
	assert.Contains(t, model.status, "Queued download notes.txt")
}

func TestDownloadKeyIgnoredOnLocalPanel(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{
		"/": {{Name: "notes.txt"}},
	})
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model = applyMsg(t, model, keyRunes("d"))
	assert.Equal(t, 0, model.manager.QueuedCount())
}

func TestUploadKeyStartsTransfer(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{"/": nil})
	localDir := model.browser.Local.Cwd
	require.NoError(t, os.WriteFile(filepath.Join(localDir, "report.pdf"), []byte("x"), 0o644))

	model = applyMsg(t, model, localListingMsg{
		path:    localDir,
		entries: []domain.FileEntry{{Name: "report.pdf"}},
	})
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model.browser.Local.Selected = 1 // past ".."
	model = applyMsg(t, model, keyRunes("u"))

	assert.Contains(t, model.status, "Uploading report.pdf")
}

func TestUploadCompletionInvalidatesDestinationDir(t *testing.T) {
	fake := &fakeRemote{listings: map[string][]domain.FileEntry{}, sizes: map[string]int64{}}
	browser := state.NewBrowser(t.TempDir(), "/")
	model := NewModel(browser, transfer.NewManager(fake), fake, "dark", "root@test", false)
	model = applyMsg(t, model, remoteListingMsg{path: "/srv/incoming"})

	localDir := model.browser.Local.Cwd
	require.NoError(t, os.WriteFile(filepath.Join(localDir, "report.pdf"), []byte("x"), 0o644))
	model = applyMsg(t, model, localListingMsg{
		path:    localDir,
		entries: []domain.FileEntry{{Name: "report.pdf"}},
	})
	model = applyMsg(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model.browser.Local.Selected = 1 // past ".."
	model = applyMsg(t, model, keyRunes("u"))

	// Navigate away before the upload completes; the cache drop must
	// still target the directory the file landed in, not the new cwd.
	model = applyMsg(t, model, remoteListingMsg{path: "/var/log"})

	deadline := time.Now().Add(3 * time.Second)
	for len(fake.invalidated) == 0 && time.Now().Before(deadline) {
		model = applyMsg(t, model, tickMsg(time.Now()))
		time.Sleep(2 * time.Millisecond)
	}
	assert.Equal(t, []string{"/srv/incoming"}, fake.invalidated)
}

func TestHiddenFilesToggled(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{"/": nil})
	localDir := model.browser.Local.Cwd
	entries := []domain.FileEntry{{Name: ".secret"}, {Name: "visible"}}
	model = applyMsg(t, model, localListingMsg{path: localDir, entries: entries})

	var names []string
	for _, entry := range model.browser.Local.Entries {
		names = append(names, entry.Name)
	}
	assert.NotContains(t, names, ".secret")

	model = applyMsg(t, model, keyRunes("."))
	names = nil
	for _, entry := range model.browser.Local.Entries {
		names = append(names, entry.Name)
	}
	assert.Contains(t, names, ".secret")
}

func TestLocalListingErrorKeepsEntries(t *testing.T) {
	model := newTestModel(t, map[string][]domain.FileEntry{"/": {{Name: "keep"}}})
	model = applyMsg(t, model, localListingMsg{path: "/nope", err: os.ErrNotExist})
	assert.Contains(t, model.status, "List error")
	assert.Equal(t, []string{"keep"}, remoteNames(model))
}
