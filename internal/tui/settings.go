package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/nutriplan/internal/nutrition"
	"github.com/sadopc/nutriplan/internal/store"
)

// targetLabels names the stored target settings.
var targetLabels = map[string]string{
	nutrition.SettingTargetCal:  nutrition.LabelCalories,
	nutrition.SettingTargetPro:  nutrition.LabelProtein,
	nutrition.SettingTargetCarb: nutrition.LabelCarbs,
	nutrition.SettingTargetFat:  nutrition.LabelFat,
}

type settingsModel struct {
	tracker *nutrition.Tracker
	db      Store
	width   int
	height  int

	targets nutrition.Targets
	// saved are the stored rows; a label missing here shows targets.
	saved      []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	cal  *string
	pro  *string
	carb *string
	fat  *string
}

func newSettingsModel(t *nutrition.Tracker, db Store) settingsModel {
	cal, pro, carb, fat := "", "", "", ""
	targets := nutrition.DefaultTargets()
	if t != nil {
		targets = t.Targets()
	}
	return settingsModel{
		tracker: t,
		db:      db,
		targets: targets,
		cal:     &cal,
		pro:     &pro,
		carb:    &carb,
		fat:     &fat,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	targets nutrition.Targets
	saved   []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	if s.tracker == nil {
		return nil
	}
	t, db := s.tracker, s.db
	return func() tea.Msg {
		msg := settingsDataMsg{targets: t.Targets()}
		if db != nil {
			saved, err := db.GetAllSettings()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Could not load settings: %v", err), isError: true}
			}
			msg.saved = saved
		}
		return msg
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.targets = msg.targets
		s.saved = msg.saved
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func settingRow(label, value string) string {
	name := lipgloss.NewStyle().Width(24).Render(label)
	return fmt.Sprintf("  %s %s", name, highlightStyle.Render(value+" "+nutrition.UnitFor(label)))
}

func validateTarget(v string) error {
	_, err := nutrition.ParseTarget(v)
	return err
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.cal = nutrition.FormatAmount(s.targets.Cal)
	*s.pro = nutrition.FormatAmount(s.targets.Pro)
	*s.carb = nutrition.FormatAmount(s.targets.Carb)
	*s.fat = nutrition.FormatAmount(s.targets.Fat)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Calories (kcal)").Value(s.cal).Validate(validateTarget),
			huh.NewInput().Title("Protein (g)").Value(s.pro).Validate(validateTarget),
			huh.NewInput().Title("Carbs (g)").Value(s.carb).Validate(validateTarget),
			huh.NewInput().Title("Fat (g)").Value(s.fat).Validate(validateTarget),
		).Title("Daily Targets"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		targets, err := s.formTargets()
		if err != nil {
			return s, statusCmd(err.Error(), true)
		}
		s.targets = targets
		return s, dispatchCmd(actionMsg{kind: actionSaveTargets, targets: targets})
	}

	return s, cmd
}

// formTargets parses the submitted values. The form validates each field,
// so an error here means the values changed underneath it.
func (s settingsModel) formTargets() (nutrition.Targets, error) {
	var t nutrition.Targets
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{nutrition.LabelCalories, *s.cal, &t.Cal},
		{nutrition.LabelProtein, *s.pro, &t.Pro},
		{nutrition.LabelCarbs, *s.carb, &t.Carb},
		{nutrition.LabelFat, *s.fat, &t.Fat},
	}
	for _, f := range fields {
		v, err := nutrition.ParseTarget(f.raw)
		if err != nil {
			return nutrition.Targets{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return t, nil
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Daily Targets")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, "")
	stored := make(map[string]string, len(s.saved))
	for _, setting := range s.saved {
		if label, ok := targetLabels[setting.Key]; ok {
			stored[label] = setting.Value
		}
	}
	for _, label := range nutrition.Labels {
		value, ok := stored[label]
		if !ok {
			value = nutrition.FormatAmount(s.targets.For(label))
		}
		rows = append(rows, settingRow(label, value))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit targets"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
