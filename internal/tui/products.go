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

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputBarcode
)

type productsModel struct {
	catalog Catalog
	width   int
	height  int

	input textinput.Model
	mode  inputMode
	seq   int

	title    string
	products []catalog.Product
	searched bool
	loading  bool
	cursor   int
	// grade indexes catalog.NutriScoreGrades; -1 shows every grade.
	grade int

	picking      bool
	pickerCursor int
}

type productsLoadedMsg struct {
	seq      int
	title    string
	products []catalog.Product
}

type productDebounceMsg struct {
	seq   int
	query string
}

func newProductsModel(c Catalog) productsModel {
	ti := textinput.New()
	ti.CharLimit = 64
	return productsModel{
		catalog: c,
		input:   ti,
		title:   "Products",
		grade:   -1,
	}
}

func (p *productsModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.input.Width = clamp(w-12, 10, 60)
}

func (p productsModel) capturing() bool { return p.mode != inputNone }

func (p productsModel) gradeFilter() string {
	if p.grade < 0 || p.grade >= len(catalog.NutriScoreGrades) {
		return ""
	}
	return catalog.NutriScoreGrades[p.grade]
}

// visible is the product list after the Nutri-Score filter.
func (p productsModel) visible() []catalog.Product {
	return catalog.FilterByGrade(p.products, p.gradeFilter())
}

func (p productsModel) update(msg tea.Msg) (productsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		if msg.seq != p.seq {
			return p, nil
		}
		p.title = msg.title
		p.products = msg.products
		p.searched = true
		p.loading = false
		p.cursor = 0
		return p, nil

	case productDebounceMsg:
		if msg.seq != p.seq {
			return p, nil
		}
		return p.search(msg.query)

	case tea.KeyMsg:
		if p.mode != inputNone {
			return p.updateInput(msg)
		}
		if p.picking {
			return p.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Search):
			return p.focus(inputSearch)
		case key.Matches(msg, keys.Barcode):
			return p.focus(inputBarcode)
		case key.Matches(msg, keys.Categories):
			p.picking = true
			p.pickerCursor = 0
		case key.Matches(msg, keys.Grade):
			p.grade++
			if p.grade >= len(catalog.NutriScoreGrades) {
				p.grade = -1
			}
			p.cursor = 0
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.visible())-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Log):
			list := p.visible()
			if p.cursor < len(list) {
				return p, dispatchCmd(actionMsg{kind: actionLogItem, item: list[p.cursor].LogItem()})
			}
		}
	}
	return p, nil
}

func (p productsModel) focus(mode inputMode) (productsModel, tea.Cmd) {
	p.mode = mode
	p.input.SetValue("")
	if mode == inputBarcode {
		p.input.Prompt = "# "
		p.input.Placeholder = "Barcode, e.g. 3017620422003"
	} else {
		p.input.Prompt = "/ "
		p.input.Placeholder = "Search products..."
	}
	cmd := p.input.Focus()
	return p, cmd
}

func (p productsModel) updateInput(msg tea.KeyMsg) (productsModel, tea.Cmd) {
	mode := p.mode
	switch msg.Type {
	case tea.KeyEsc:
		p.mode = inputNone
		p.input.Blur()
		return p, nil
	case tea.KeyEnter:
		p.mode = inputNone
		p.input.Blur()
		if mode == inputBarcode {
			return p.lookup(p.input.Value())
		}
		return p.search(p.input.Value())
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	// Barcodes are submitted explicitly.
	if mode == inputBarcode || p.input.Value() == before {
		return p, cmd
	}

	p.seq++
	seq, query := p.seq, p.input.Value()
	return p, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return productDebounceMsg{seq: seq, query: query}
	}))
}

func (p productsModel) updatePicker(msg tea.KeyMsg) (productsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.pickerCursor > 0 {
			p.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.pickerCursor < len(catalog.ProductCategories)-1 {
			p.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		p.picking = false
		return p.search(catalog.ProductCategories[p.pickerCursor])
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Categories):
		p.picking = false
	}
	return p, nil
}

func (p productsModel) search(query string) (productsModel, tea.Cmd) {
	query = strings.TrimSpace(query)
	if query == "" {
		return p, nil
	}
	return p.load(fmt.Sprintf("Results for %q", query), func(c Catalog) []catalog.Product {
		ctx, cancel := fetchContext()
		defer cancel()
		return c.SearchProducts(ctx, query)
	})
}

func (p productsModel) lookup(code string) (productsModel, tea.Cmd) {
	code = strings.TrimSpace(code)
	if code == "" {
		return p, nil
	}
	return p.load("Barcode "+code, func(c Catalog) []catalog.Product {
		ctx, cancel := fetchContext()
		defer cancel()
		return c.ProductByBarcode(ctx, code)
	})
}

func (p productsModel) load(title string, fetch func(Catalog) []catalog.Product) (productsModel, tea.Cmd) {
	if p.catalog == nil {
		return p, nil
	}
	p.seq++
	p.loading = true
	seq, c := p.seq, p.catalog
	return p, func() tea.Msg {
		return productsLoadedMsg{seq: seq, title: title, products: fetch(c)}
	}
}

// countLine is the result summary shown above the list.
func (p productsModel) countLine() string {
	n := len(p.visible())
	if n == 0 {
		return "No products found"
	}
	if n == 1 {
		return "Found 1 product"
	}
	return fmt.Sprintf("Found %d products", n)
}

func (p productsModel) view() string {
	w := p.width - 4

	input := p.input.View()
	if p.mode == inputNone {
		input = mutedStyle.Render("/: search  b: barcode  c: categories")
	}

	gradeLabel := "all"
	if g := p.gradeFilter(); g != "" {
		gradeLabel = lipgloss.NewStyle().Foreground(gradeColors[g]).Bold(true).Render(strings.ToUpper(g))
	}
	filter := mutedStyle.Render("Nutri-Score: ") + gradeLabel + mutedStyle.Render("  (g to cycle)")

	top := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, input, "", filter))

	var bottom string
	if p.picking {
		bottom = p.renderPicker(w)
	} else {
		bottom = p.renderList(w)
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func (p productsModel) renderList(w int) string {
	title := titleStyle.Render(p.title)

	if p.loading {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Searching...")),
		)
	}
	if !p.searched {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Search for a product or scan a barcode")),
		)
	}

	list := p.visible()
	var rows []string
	rows = append(rows, fmt.Sprintf("%s  %s", title, mutedStyle.Render(p.countLine())))
	if len(list) == 0 {
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	n := min(len(list), max(3, (p.height-14)/2))
	start := clamp(p.cursor-n+1, 0, len(list)-n)
	for i := start; i < start+n; i++ {
		prod := list[i]
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := prod.Name
		if name == "" {
			name = "Unnamed product"
		}
		grade := "  "
		if g := strings.ToLower(prod.NutriScore); gradeColors[g] != "" {
			grade = lipgloss.NewStyle().Foreground(gradeColors[g]).Bold(true).Render(strings.ToUpper(g)) + " "
		}
		line := grade + truncate(name, w-30)
		if prod.Brand != "" {
			line += mutedStyle.Render("  " + truncate(prod.Brand, 24))
		}
		rows = append(rows, style.Render(cursor+line))
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("     %s per 100g  %s", kcal(prod.Cal), macroLine(prod.Pro, prod.Carb, prod.Fat))))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  l: log 100g"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p productsModel) renderPicker(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Product Categories"))
	for i, c := range catalog.ProductCategories {
		cursor := "  "
		style := normalItemStyle
		if i == p.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+c))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: search  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
