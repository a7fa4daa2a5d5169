package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/nutriplan/internal/catalog"
)

type detailsModel struct {
	catalog Catalog
	width   int
	height  int

	id      string
	meal    *catalog.Meal
	loading bool
	scroll  int
}

type mealLoadedMsg struct {
	id   string
	meal *catalog.Meal
}

// backMsg leaves the details view.
type backMsg struct{}

func newDetailsModel(c Catalog) detailsModel {
	return detailsModel{catalog: c}
}

func (d *detailsModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d detailsModel) open(id string) (detailsModel, tea.Cmd) {
	d.id = id
	d.meal = nil
	d.scroll = 0
	if d.catalog == nil {
		return d, nil
	}
	d.loading = true
	c := d.catalog
	return d, func() tea.Msg {
		ctx, cancel := fetchContext()
		defer cancel()
		return mealLoadedMsg{id: id, meal: c.MealByID(ctx, id)}
	}
}

func (d detailsModel) update(msg tea.Msg) (detailsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case mealLoadedMsg:
		if msg.id != d.id {
			return d, nil
		}
		d.meal = msg.meal
		d.loading = false
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			return d, func() tea.Msg { return backMsg{} }
		case key.Matches(msg, keys.Log):
			if d.meal != nil {
				return d, dispatchCmd(actionMsg{kind: actionLogItem, item: d.meal.LogItem()})
			}
		case key.Matches(msg, keys.Up):
			if d.scroll > 0 {
				d.scroll--
			}
		case key.Matches(msg, keys.Down):
			d.scroll++
		}
	}
	return d, nil
}

func (d detailsModel) view() string {
	w := d.width - 4
	hint := mutedStyle.Render("  l: log this meal  ↑/↓: scroll  esc: back")

	if d.loading {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading recipe..."))
	}
	if d.meal == nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				errorStyle.Render("Recipe not found"), "", hint),
		)
	}

	m := d.meal
	var rows []string
	rows = append(rows, titleStyle.Render(m.Name))

	var meta []string
	if m.Category != "" {
		meta = append(meta, m.Category)
	}
	if m.Area != "" {
		meta = append(meta, m.Area)
	}
	if len(meta) > 0 {
		rows = append(rows, highlightStyle.Render(strings.Join(meta, " · ")))
	}
	if len(m.Tags) > 0 {
		rows = append(rows, mutedStyle.Render(strings.Join(m.Tags, ", ")))
	}

	est := catalog.RecipeEstimate
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("Estimated: %s  %s", kcal(est.Cal), macroLine(est.Pro, est.Carb, est.Fat))))

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Ingredients"))
	for _, ing := range m.Ingredients {
		line := ing.Name
		if ing.Measure != "" {
			line = ing.Measure + " " + ing.Name
		}
		rows = append(rows, "  • "+line)
	}

	if m.Instructions != "" {
		rows = append(rows, "")
		rows = append(rows, titleStyle.Render("Instructions"))
		body := lipgloss.NewStyle().Width(clamp(w-6, 20, w)).Render(strings.TrimSpace(m.Instructions))
		rows = append(rows, strings.Split(body, "\n")...)
	}

	if embed := m.EmbedURL(); embed != "" {
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("Video: ")+highlightStyle.Render(embed))
	}

	visible := max(5, d.height-8)
	start := clamp(d.scroll, 0, max(0, len(rows)-visible))
	end := min(len(rows), start+visible)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, strings.Join(rows[start:end], "\n"), "", hint),
	)
}
