package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/nutriplan/internal/export"
	"github.com/sadopc/nutriplan/internal/nutrition"
)

// actionKind names a user action that reaches the core.
type actionKind int

const (
	actionLogItem actionKind = iota
	actionClearLog
	actionOpenMeal
	actionSaveTargets
	actionExport
)

type exportFormat int

const (
	exportCSV exportFormat = iota
	exportJSON
)

// actionMsg is emitted by views and routed through the dispatch table.
type actionMsg struct {
	kind    actionKind
	item    nutrition.Item
	mealID  string
	targets nutrition.Targets
	format  exportFormat
}

type actionHandler func(a App, msg actionMsg) (App, tea.Cmd)

// dispatch maps every action to the core operation that serves it. Views
// never call the log, settings or exporter directly.
var dispatch = map[actionKind]actionHandler{
	actionLogItem:     handleLogItem,
	actionClearLog:    handleClearLog,
	actionOpenMeal:    handleOpenMeal,
	actionSaveTargets: handleSaveTargets,
	actionExport:      handleExport,
}

func dispatchCmd(msg actionMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (a App) runAction(msg actionMsg) (App, tea.Cmd) {
	h, ok := dispatch[msg.kind]
	if !ok {
		return a, statusCmd(fmt.Sprintf("Unknown action %d", msg.kind), true)
	}
	return h(a, msg)
}

func handleLogItem(a App, msg actionMsg) (App, tea.Cmd) {
	log := a.log
	item := msg.item
	return a, func() tea.Msg {
		entry, err := log.Append(item)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Could not log %s: %v", item.Name, err), isError: true}
		}
		return loggedMsg{entry: entry}
	}
}

func handleClearLog(a App, _ actionMsg) (App, tea.Cmd) {
	log := a.log
	return a, func() tea.Msg {
		if err := log.Clear(); err != nil {
			return statusMsg{text: fmt.Sprintf("Clear failed: %v", err), isError: true}
		}
		return logClearedMsg{}
	}
}

func handleOpenMeal(a App, msg actionMsg) (App, tea.Cmd) {
	a.activeView = viewDetails
	var cmd tea.Cmd
	a.details, cmd = a.details.open(msg.mealID)
	return a, cmd
}

func handleSaveTargets(a App, msg actionMsg) (App, tea.Cmd) {
	db := a.db
	tracker := a.tracker
	targets := msg.targets
	return a, func() tea.Msg {
		if db != nil {
			if err := db.SetSettings(targets.Settings()); err != nil {
				return statusMsg{text: fmt.Sprintf("Save failed: %v", err), isError: true}
			}
		}
		tracker.SetTargets(targets)
		return targetsSavedMsg{targets: targets}
	}
}

func handleExport(a App, msg actionMsg) (App, tea.Cmd) {
	entries := a.log.List()
	targets := a.tracker.Targets()
	dir := a.exportDir
	format := msg.format
	return a, func() tea.Msg {
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			dir = home
		}
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == exportCSV {
			path = filepath.Join(dir, fmt.Sprintf("nutriplan-log-%s.csv", dateStr))
			if err := export.ToCSV(entries, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("nutriplan-log-%s.json", dateStr))
			if err := export.ToJSON(entries, targets, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}
		return exportDoneMsg{path: path}
	}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}
