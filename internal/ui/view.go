package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scpane/internal/state"
	"scpane/internal/transfer"
)

type uiStyles struct {
	headerStyle   lipgloss.Style
	mutedStyle    lipgloss.Style
	statusStyle   lipgloss.Style
	warnStyle     lipgloss.Style
	cursorStyle   lipgloss.Style
	dirStyle      lipgloss.Style
	panelBorder   lipgloss.Style
	focusedBorder lipgloss.Style
}

func stylesFor(model Model) uiStyles {
	if strings.ToLower(model.theme) == "light" {
		return uiStyles{
			headerStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
			dirStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			panelBorder:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			focusedBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("25")).Padding(0, 1),
		}
	}
	return uiStyles{
		headerStyle:   lipgloss.NewStyle().Bold(true),
		mutedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		dirStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		panelBorder:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		focusedBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 1),
	}
}

func (model Model) View() string {
	styles := stylesFor(model)
	if model.showHelp {
		return renderHelpView(model, styles)
	}
	body := renderPanels(model, styles)
	footer := renderFooter(model, styles)
	return strings.Join([]string{body, footer}, "\n")
}

func renderPanels(model Model, styles uiStyles) string {
	panelWidth := model.width/2 - 1
	if panelWidth < 24 {
		panelWidth = 24
	}
	left := renderPanel(model, styles, model.browser.Local, "LOCAL",
		model.localViewTop, panelWidth, model.browser.Focus == state.FocusLocal)
	right := renderPanel(model, styles, model.browser.Remote, "REMOTE",
		model.remoteViewTop, panelWidth, model.browser.Focus == state.FocusRemote)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderPanel(model Model, styles uiStyles, panel *state.PanelState, title string, top, width int, focused bool) string {
	contentWidth := width - 4
	if contentWidth < 16 {
		contentWidth = 16
	}
	header := padLine(styles.headerStyle.Render(title), styles.mutedStyle.Render(trimPath(panel.Cwd, contentWidth-len(title)-2)), contentWidth)

	height := model.listHeight()
	lines := make([]string, 0, height+1)
	lines = append(lines, header)
	if len(panel.Entries) == 0 {
		lines = append(lines, styles.mutedStyle.Render("(empty)"))
	}
	end := top + height
	if end > len(panel.Entries) {
		end = len(panel.Entries)
	}
	for index := top; index < end; index++ {
		entry := panel.Entries[index]
		name := entry.Name
		if entry.IsDir && !entry.IsParent() {
			name += "/"
		}
		line := truncate(name, contentWidth-2)
		switch {
		case focused && index == panel.Selected:
			line = styles.cursorStyle.Render("> " + line)
		case entry.IsDir:
			line = styles.dirStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		lines = append(lines, line)
	}
	for len(lines) < height+1 {
		lines = append(lines, "")
	}
	border := styles.panelBorder
	if focused {
		border = styles.focusedBorder
	}
	return border.Width(contentWidth).Render(strings.Join(lines, "\n"))
}

// renderFooter is two lines: running transfers with progress, then the
// status message and key hints.
func renderFooter(model Model, styles uiStyles) string {
	transferLine := renderTransfers(model, styles)

	statusStyle := styles.statusStyle
	if strings.Contains(strings.ToLower(model.status), "error") || strings.Contains(strings.ToLower(model.status), "failed") {
		statusStyle = styles.warnStyle
	}
	hints := "tab panel  ↑/↓ move  enter open  d download  u upload  / filter  r refresh  ? help  q quit"
	if model.browser.Mode == state.ModeFilter {
		hints = "type to filter  enter keep  esc clear"
	}
	statusLine := padLine(statusStyle.Render(truncate(model.status, model.width/2)), styles.mutedStyle.Render(hints), model.width)
	return strings.Join([]string{transferLine, statusLine}, "\n")
}

func renderTransfers(model Model, styles uiStyles) string {
	active := model.manager.Active()
	if len(active) == 0 && model.manager.QueuedCount() == 0 {
		return styles.mutedStyle.Render(model.target)
	}
	parts := make([]string, 0, len(active)+1)
	for _, item := range active {
		parts = append(parts, transferSummary(item))
	}
	if queued := model.manager.QueuedCount(); queued > 0 {
		parts = append(parts, fmt.Sprintf("queued: %d", queued))
	}
	return styles.statusStyle.Render(truncate(strings.Join(parts, "  |  "), model.width))
}

func transferSummary(item *transfer.ActiveTransfer) string {
	label := fmt.Sprintf("%s %s", item.Job.Kind, item.Job.FileName)
	pct, known := item.Percent()
	switch item.Job.Kind {
	case transfer.FolderDownload, transfer.FolderUpload:
		if item.FilesTotal == 0 {
			return label + " (listing...)"
		}
		return fmt.Sprintf("%s %d/%d files %s", label, item.FilesDone, item.FilesTotal, progressBar(pct, known))
	default:
		return fmt.Sprintf("%s %s", label, progressBar(pct, known))
	}
}

func progressBar(pct int, known bool) string {
	const width = 12
	if !known {
		return "[............]"
	}
	filled := pct * width / 100
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), pct)
}

func renderHelpView(model Model, styles uiStyles) string {
	bindings := []struct {
		keys string
		desc string
	}{
		{"tab", "switch panel"},
		{"↑/k, ↓/j", "move cursor"},
		{"enter, →", "open directory"},
		{"backspace, ←", "parent directory"},
		{"d", "download selected remote file or folder"},
		{"u", "upload selected local file or folder"},
		{"/", "filter listing (esc clears)"},
		{".", "toggle hidden files"},
		{"r", "refresh focused panel"},
		{"?", "toggle help"},
		{"q", "quit"},
	}
	lines := []string{styles.headerStyle.Render("scpane help"), ""}
	for _, binding := range bindings {
		lines = append(lines, fmt.Sprintf("%-16s %s", binding.keys, binding.desc))
	}
	lines = append(lines, "", styles.mutedStyle.Render(fmt.Sprintf("Downloads run %d at a time; folders transfer as one job.", transfer.MaxParallelDownloads)))
	lines = append(lines, "Press ? to close help")
	width := model.width
	if width <= 0 {
		width = 80
	}
	return styles.panelBorder.Width(width - 4).Render(strings.Join(lines, "\n"))
}

func padLine(left, right string, width int) string {
	if width <= 0 {
		return left
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", space) + right
}

func trimPath(path string, width int) string {
	if width <= 0 || len(path) <= width {
		return path
	}
	return "..." + path[len(path)-width+3:]
}

func truncate(value string, width int) string {
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}
