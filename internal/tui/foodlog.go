package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/nutriplan/internal/nutrition"
)

type foodLogModel struct {
	log     *nutrition.Log
	tracker *nutrition.Tracker
	db      Store
	width   int
	height  int

	// entries are newest first.
	entries []nutrition.Entry
	summary nutrition.Summary
	cursor  int
	savedAt time.Time

	bars  map[string]progress.Model
	chart barchart.Model
}

type foodLogDataMsg struct {
	entries []nutrition.Entry
	summary nutrition.Summary
	savedAt time.Time
}

func newFoodLogModel(l *nutrition.Log, t *nutrition.Tracker, db Store) foodLogModel {
	bars := make(map[string]progress.Model, len(nutrition.Labels))
	for _, label := range nutrition.Labels {
		bars[label] = progress.New(
			progress.WithSolidFill(string(nutrientColors[label])),
			progress.WithoutPercentage(),
		)
	}
	return foodLogModel{
		log:     l,
		tracker: t,
		db:      db,
		bars:    bars,
		chart:   barchart.New(40, 8),
	}
}

func (f *foodLogModel) setSize(w, h int) {
	f.width = w
	f.height = h
	for label, bar := range f.bars {
		bar.Width = clamp(w-44, 10, 60)
		f.bars[label] = bar
	}
	f.buildChart()
}

func (f foodLogModel) refresh() tea.Cmd {
	if f.log == nil || f.tracker == nil {
		return nil
	}
	l, t, db := f.log, f.tracker, f.db
	return func() tea.Msg {
		entries := l.List()
		summary := t.Report(entries)
		newest := make([]nutrition.Entry, len(entries))
		for i, e := range entries {
			newest[len(entries)-1-i] = e
		}
		msg := foodLogDataMsg{entries: newest, summary: summary}
		// A cleared log has no row, which leaves savedAt zero.
		if db != nil {
			if rec, err := db.GetRecord(l.Key()); err == nil {
				msg.savedAt = rec.UpdatedAt
			}
		}
		return msg
	}
}

func (f foodLogModel) update(msg tea.Msg) (foodLogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case foodLogDataMsg:
		f.entries = msg.entries
		f.summary = msg.summary
		f.savedAt = msg.savedAt
		f.cursor = clamp(f.cursor, 0, max(0, len(f.entries)-1))
		f.buildChart()
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Clear):
			if len(f.entries) > 0 {
				return f, dispatchCmd(actionMsg{kind: actionClearLog})
			}
		case key.Matches(msg, keys.Up):
			if f.cursor > 0 {
				f.cursor--
			}
		case key.Matches(msg, keys.Down):
			if f.cursor < len(f.entries)-1 {
				f.cursor++
			}
		}
	}
	return f, nil
}

func (f *foodLogModel) buildChart() {
	chartWidth := clamp(f.width-8, 20, 80)
	f.chart = barchart.New(chartWidth, 8)

	var bars []barchart.BarData
	for _, p := range f.summary.Progress {
		bars = append(bars, barchart.BarData{
			Label: p.Label,
			Values: []barchart.BarValue{{
				Name:  p.Label,
				Value: p.Percent,
				Style: lipgloss.NewStyle().Foreground(nutrientColors[p.Label]),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	// Pin the scale so a single full bar does not look like 100%.
	bars = append(bars, barchart.BarData{
		Label:  "",
		Values: []barchart.BarValue{{Value: 100, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
	})
	f.chart.PushAll(bars)
	f.chart.Draw()
}

func (f foodLogModel) view() string {
	w := f.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		f.renderProgress(w),
		f.renderEntries(w),
	)
}

func (f foodLogModel) renderProgress(w int) string {
	title := titleStyle.Render("Daily Progress")

	var rows []string
	rows = append(rows, title, "")
	for _, p := range f.summary.Progress {
		bar := f.bars[p.Label]
		name := lipgloss.NewStyle().Width(10).Foreground(nutrientColors[p.Label]).Render(p.Label)
		pct := fmt.Sprintf("%3.0f%%", p.Percent)
		if p.Percent >= 100 {
			pct = successStyle.Render(pct)
		} else {
			pct = mutedStyle.Render(pct)
		}
		rows = append(rows, fmt.Sprintf("%s %s %s  %s", name, bar.ViewAs(p.Fraction()), pct, p.Display))
	}
	if f.height > 30 && len(f.summary.Progress) > 0 {
		rows = append(rows, "", f.chart.View())
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (f foodLogModel) renderEntries(w int) string {
	title := titleStyle.Render("Today's Log")
	if len(f.entries) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No meals logged today")),
		)
	}

	var rows []string
	count := fmt.Sprintf("%d items", len(f.entries))
	if !f.savedAt.IsZero() {
		count += "  saved " + humanize.Time(f.savedAt)
	}
	rows = append(rows, fmt.Sprintf("%s  %s", title, mutedStyle.Render(count)))

	n := min(len(f.entries), max(3, (f.height-24)/2))
	start := clamp(f.cursor-n+1, 0, len(f.entries)-n)
	for i := start; i < start+n; i++ {
		e := f.entries[i]
		cursor := "  "
		style := normalItemStyle
		if i == f.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		when := mutedStyle.Render(humanize.Time(e.LoggedAt()))
		rows = append(rows, style.Render(fmt.Sprintf("%s%-28s %10s", cursor, truncate(e.Name, 28), kcal(e.Cal)))+"  "+when)
		rows = append(rows, mutedStyle.Render("    "+macroLine(e.Pro, e.Carb, e.Fat)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  x: clear log  e: export"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
