package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/nutriplan/internal/catalog"
)

const popularMealsTitle = "Popular Meals"

type mealsModel struct {
	catalog Catalog
	width   int
	height  int

	input     textinput.Model
	searching bool
	// seq identifies the newest request; older results are dropped.
	seq int

	title      string
	meals      []catalog.Meal
	categories []catalog.Category
	loading    bool
	cursor     int
	area       int

	// Category picker state
	picking      bool
	pickerCursor int
}

type homeLoadedMsg struct {
	home catalog.Home
}

type mealsLoadedMsg struct {
	seq   int
	title string
	meals []catalog.Meal
}

type searchDebounceMsg struct {
	seq   int
	query string
}

func newMealsModel(c Catalog) mealsModel {
	ti := textinput.New()
	ti.Placeholder = "Search recipes..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return mealsModel{
		catalog: c,
		input:   ti,
		title:   popularMealsTitle,
		loading: c != nil,
	}
}

func (m mealsModel) Init() tea.Cmd {
	if m.catalog == nil {
		return nil
	}
	c := m.catalog
	return func() tea.Msg {
		ctx, cancel := fetchContext()
		defer cancel()
		return homeLoadedMsg{home: c.Home(ctx)}
	}
}

func (m *mealsModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = clamp(w-12, 10, 60)
}

// capturing reports whether the search box owns the keyboard.
func (m mealsModel) capturing() bool { return m.searching }

func (m mealsModel) selected() (catalog.Meal, bool) {
	if m.cursor < 0 || m.cursor >= len(m.meals) {
		return catalog.Meal{}, false
	}
	return m.meals[m.cursor], true
}

func (m mealsModel) update(msg tea.Msg) (mealsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		m.categories = msg.home.Categories
		// A search issued while Home was in flight wins.
		if m.seq == 0 {
			m.meals = msg.home.Meals
			m.loading = false
			m.cursor = 0
		}
		return m, nil

	case mealsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.title = msg.title
		m.meals = msg.meals
		m.loading = false
		m.cursor = 0
		return m, nil

	case searchDebounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m.search(msg.query)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.picking {
			return m.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Search):
			m.searching = true
			cmd := m.input.Focus()
			return m, cmd
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.meals)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if meal, ok := m.selected(); ok {
				return m, dispatchCmd(actionMsg{kind: actionOpenMeal, mealID: meal.ID})
			}
		case key.Matches(msg, keys.Log):
			if meal, ok := m.selected(); ok {
				return m, dispatchCmd(actionMsg{kind: actionLogItem, item: meal.LogItem()})
			}
		case key.Matches(msg, keys.Categories):
			if len(m.categories) > 0 {
				m.picking = true
				m.pickerCursor = 0
			}
		case key.Matches(msg, keys.Left):
			return m.selectArea(m.area - 1)
		case key.Matches(msg, keys.Right):
			return m.selectArea(m.area + 1)
		}
	}
	return m, nil
}

func (m mealsModel) updateSearch(msg tea.KeyMsg) (mealsModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		return m.search(m.input.Value())
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.seq++
	seq, query := m.seq, m.input.Value()
	return m, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, query: query}
	}))
}

func (m mealsModel) updatePicker(msg tea.KeyMsg) (mealsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.pickerCursor < len(m.categories)-1 {
			m.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		m.picking = false
		name := m.categories[m.pickerCursor].Name
		return m.load(name, func(c Catalog) []catalog.Meal {
			ctx, cancel := fetchContext()
			defer cancel()
			return c.FilterByCategory(ctx, name)
		})
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Categories):
		m.picking = false
	}
	return m, nil
}

func (m mealsModel) search(query string) (mealsModel, tea.Cmd) {
	query = strings.TrimSpace(query)
	title := popularMealsTitle
	if query != "" {
		title = fmt.Sprintf("Results for %q", query)
	}
	return m.load(title, func(c Catalog) []catalog.Meal {
		ctx, cancel := fetchContext()
		defer cancel()
		return c.SearchMeals(ctx, query)
	})
}

func (m mealsModel) selectArea(i int) (mealsModel, tea.Cmd) {
	n := len(catalog.Areas)
	m.area = (i%n + n) % n
	area := catalog.Areas[m.area]
	title := area
	if area == catalog.AllRecipes {
		title = popularMealsTitle
	}
	return m.load(title, func(c Catalog) []catalog.Meal {
		ctx, cancel := fetchContext()
		defer cancel()
		return c.MealsByArea(ctx, area)
	})
}

// load starts a fetch tagged with a fresh sequence number.
func (m mealsModel) load(title string, fetch func(Catalog) []catalog.Meal) (mealsModel, tea.Cmd) {
	if m.catalog == nil {
		return m, nil
	}
	m.seq++
	m.loading = true
	seq, c := m.seq, m.catalog
	return m, func() tea.Msg {
		return mealsLoadedMsg{seq: seq, title: title, meals: fetch(c)}
	}
}

func (m mealsModel) view() string {
	w := m.width - 4

	search := m.input.View()
	if !m.searching && m.input.Value() == "" {
		search = mutedStyle.Render("Press / to search recipes")
	}

	top := panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, search, "", m.renderAreas()),
	)

	var bottom string
	if m.picking {
		bottom = m.renderPicker(w)
	} else {
		bottom = m.renderList(w)
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func (m mealsModel) renderAreas() string {
	var parts []string
	for i, a := range catalog.Areas {
		if i == m.area {
			parts = append(parts, highlightStyle.Render("["+a+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(a))
		}
	}
	return strings.Join(parts, " ")
}

func (m mealsModel) renderList(w int) string {
	title := titleStyle.Render(m.title)

	if m.loading {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Loading...")),
		)
	}
	if len(m.meals) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No recipes found")),
		)
	}

	var rows []string
	rows = append(rows, fmt.Sprintf("%s  %s", title, mutedStyle.Render(fmt.Sprintf("Showing %d recipes", len(m.meals)))))

	// Keep the cursor in view.
	visible := min(len(m.meals), max(3, m.height-14))
	start := clamp(m.cursor-visible+1, 0, len(m.meals)-visible)
	for i := start; i < start+visible; i++ {
		meal := m.meals[i]
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := truncate(meal.Name, w-30)
		if meal.Area != "" {
			line += mutedStyle.Render("  " + meal.Area)
		}
		rows = append(rows, style.Render(cursor+line))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: details  l: log  c: categories  ←/→: cuisine"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m mealsModel) renderPicker(w int) string {
	title := titleStyle.Render("Categories")

	var rows []string
	rows = append(rows, title)
	for i, c := range m.categories {
		cursor := "  "
		style := normalItemStyle
		if i == m.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+c.Name))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
