package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/nutriplan/internal/nutrition"
)

// Deps are the collaborators the TUI drives.
type Deps struct {
	Log     *nutrition.Log
	Tracker *nutrition.Tracker
	Catalog Catalog
	Store   Store
	// ExportDir defaults to the user's home directory.
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	log       *nutrition.Log
	tracker   *nutrition.Tracker
	db        Store
	exportDir string

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	meals    mealsModel
	products productsModel
	foodLog  foodLogModel
	settings settingsModel
	details  detailsModel

	help     help.Model
	status   string
	statusOK bool
	statusID int
}

func NewApp(d Deps) App {
	h := help.New()
	h.ShowAll = false

	tracker := d.Tracker
	if tracker == nil {
		tracker = nutrition.NewTracker(nutrition.LoadTargets(d.Store))
	}

	return App{
		log:        d.Log,
		tracker:    tracker,
		db:         d.Store,
		exportDir:  d.ExportDir,
		activeView: viewMeals,
		meals:      newMealsModel(d.Catalog),
		products:   newProductsModel(d.Catalog),
		foodLog:    newFoodLogModel(d.Log, tracker, d.Store),
		settings:   newSettingsModel(tracker, d.Store),
		details:    newDetailsModel(d.Catalog),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.meals.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.meals.setSize(a.width, contentHeight)
		a.products.setSize(a.width, contentHeight)
		a.foodLog.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.details.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing text input gets every key.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewMeals)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewProducts)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewFoodLog)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			next := viewMeals
			if a.activeView < viewSettings {
				next = a.activeView + 1
			}
			return a.switchTo(next)
		}

	case actionMsg:
		return a.runAction(msg)

	case statusMsg:
		return a.setStatus(msg.text, !msg.isError)

	case clearStatusMsg:
		if msg.id == a.statusID {
			a.status = ""
		}
		return a, nil

	case loggedMsg:
		var cmd tea.Cmd
		a, cmd = a.setStatus(msg.entry.Name+" added to your log.", true)
		if a.activeView == viewFoodLog {
			return a, tea.Batch(cmd, a.foodLog.refresh())
		}
		return a, cmd

	case logClearedMsg:
		var cmd tea.Cmd
		a, cmd = a.setStatus("Food log cleared", true)
		return a, tea.Batch(cmd, a.foodLog.refresh())

	case targetsSavedMsg:
		a.settings.targets = msg.targets
		var cmd tea.Cmd
		a, cmd = a.setStatus("Daily targets saved", true)
		return a, tea.Batch(cmd, a.foodLog.refresh(), a.settings.refresh())

	case exportDoneMsg:
		a.exportPicking = false
		return a.setStatus("Exported to "+msg.path, true)

	case backMsg:
		return a.switchTo(viewMeals)

	// Async results go to their owning view even when it is not active.
	case homeLoadedMsg, mealsLoadedMsg, searchDebounceMsg:
		var cmd tea.Cmd
		a.meals, cmd = a.meals.update(msg)
		return a, cmd

	case productsLoadedMsg, productDebounceMsg:
		var cmd tea.Cmd
		a.products, cmd = a.products.update(msg)
		return a, cmd

	case mealLoadedMsg:
		var cmd tea.Cmd
		a.details, cmd = a.details.update(msg)
		return a, cmd

	case foodLogDataMsg:
		var cmd tea.Cmd
		a.foodLog, cmd = a.foodLog.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (App, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) setStatus(text string, ok bool) (App, tea.Cmd) {
	a.statusID++
	a.status = text
	a.statusOK = ok
	id := a.statusID
	return a, tea.Tick(toastDuration, func(_ time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewMeals:
		a.meals, cmd = a.meals.update(msg)
	case viewProducts:
		a.products, cmd = a.products.update(msg)
	case viewFoodLog:
		a.foodLog, cmd = a.foodLog.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	case viewDetails:
		a.details, cmd = a.details.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewMeals:
		return a.meals.capturing()
	case viewProducts:
		return a.products.capturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewFoodLog:
		return a.foodLog.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewMeals:
		content = a.meals.view()
	case viewProducts:
		content = a.products.view()
	case viewFoodLog:
		content = a.foodLog.view()
	case viewSettings:
		content = a.settings.view()
	case viewDetails:
		content = a.details.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		active := viewState(i) == a.activeView ||
			(a.activeView == viewDetails && viewState(i) == viewMeals)
		if active {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("nutriplan")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusOK {
			status = toastStyle.Render("✓ " + a.status)
		} else {
			status = errorStyle.Render(a.status)
		}
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Food Log")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, dispatchCmd(actionMsg{kind: actionExport, format: exportFormat(a.exportCursor)})
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}
