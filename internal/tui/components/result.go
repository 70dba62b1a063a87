package components

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/rasoi-labs/rasoi/internal/ai"
	"github.com/rasoi-labs/rasoi/internal/common"
	"github.com/rasoi-labs/rasoi/internal/model"
	"github.com/rasoi-labs/rasoi/internal/tui/themes"
)

const skeletonRowCount = 5

// noExpansion means every grocery row is collapsed.
const noExpansion = -1

// ResultModel renders a planner response: grocery-shaped documents get the
// price-comparison list with expandable rows, everything else goes through
// the generic document renderer.
type ResultModel struct {
	theme     themes.Theme
	formatter *CurrencyFormatter
	width     int

	loading  bool
	result   *ai.Result
	err      error
	cursor   int
	expanded int
}

// NewResult creates an empty, collapsed result view.
func NewResult(theme themes.Theme, formatter *CurrencyFormatter) ResultModel {
	return ResultModel{
		theme:     theme,
		formatter: formatter,
		width:     80,
		expanded:  noExpansion,
	}
}

// SetWidth adjusts the render width.
func (m *ResultModel) SetWidth(width int) {
	if width > 0 {
		m.width = width
	}
}

// SetLoading flips the in-flight flag. A previous result keeps rendering
// while a new request is in flight; the skeleton shows only when there is
// nothing to display yet.
func (m *ResultModel) SetLoading(loading bool) {
	m.loading = loading
	if loading {
		m.err = nil
	}
}

// SetResult installs a response and resets expansion.
func (m *ResultModel) SetResult(result *ai.Result) {
	m.result = result
	m.err = nil
	m.loading = false
	m.cursor = 0
	m.expanded = noExpansion
}

// SetError installs a failure to render in place of a result.
func (m *ResultModel) SetError(err error) {
	m.err = err
	m.loading = false
}

// Result returns the currently displayed response, if any.
func (m *ResultModel) Result() *ai.Result {
	return m.result
}

// Toggle flips expansion for the item at index. Toggling the expanded index
// collapses it; any other index moves the expansion there.
func (m *ResultModel) Toggle(index int) {
	if index < 0 || index >= m.itemCount() {
		return
	}
	if m.expanded == index {
		m.expanded = noExpansion
		return
	}
	m.expanded = index
}

// Expanded returns the expanded item index, or -1 when all are collapsed.
func (m *ResultModel) Expanded() int {
	return m.expanded
}

// CursorUp moves the row cursor up.
func (m *ResultModel) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// CursorDown moves the row cursor down.
func (m *ResultModel) CursorDown() {
	if m.cursor < m.itemCount()-1 {
		m.cursor++
	}
}

// ToggleCursor toggles expansion at the cursor.
func (m *ResultModel) ToggleCursor() {
	m.Toggle(m.cursor)
}

func (m *ResultModel) itemCount() int {
	if m.result == nil || m.result.Grocery == nil {
		return 0
	}
	return len(m.result.Grocery.Items)
}

// View renders the component.
func (m *ResultModel) View() string {
	if m.err != nil {
		return m.theme.StatusError.Render(common.UserMessage(m.err))
	}
	if m.loading && m.result == nil {
		return m.renderSkeleton()
	}
	if m.result == nil {
		return ""
	}
	if m.result.Grocery != nil {
		return m.renderGrocery(*m.result.Grocery)
	}
	return m.renderDocument(m.result.Doc)
}

// renderSkeleton mimics the grocery-list layout while the first request is
// in flight: two summary cards and a fixed number of item rows.
func (m *ResultModel) renderSkeleton() string {
	bar := func(n int) string {
		return m.theme.Skeleton.Render(strings.Repeat("░", n))
	}
	card := m.theme.SummaryCard.Render(bar(12) + "\n" + bar(8))
	cards := lipgloss.JoinHorizontal(lipgloss.Top, card, " ", card)

	rows := make([]string, 0, skeletonRowCount)
	for i := 0; i < skeletonRowCount; i++ {
		rows = append(rows, bar(28)+"  "+bar(8))
	}
	list := m.theme.RoundedBox.Render(strings.Join(rows, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, cards, list)
}

func (m *ResultModel) renderGrocery(list model.GroceryList) string {
	budgetCard := m.theme.SummaryCard.Render(
		m.theme.Subtitle.Render("Total Budget") + "\n" +
			m.theme.Bold.Render(m.formatter.Format(list.TotalBudget)))
	totalCard := m.theme.SummaryCard.Render(
		m.theme.Subtitle.Render("Estimated Total") + "\n" +
			m.theme.StatusSuccess.Render(m.formatter.Format(list.EstimatedTotal)))
	cards := lipgloss.JoinHorizontal(lipgloss.Top, budgetCard, " ", totalCard)

	rows := make([]string, 0, len(list.Items))
	for i, item := range list.Items {
		rows = append(rows, m.renderGroceryItem(i, item))
	}
	items := m.theme.RoundedBox.Render(strings.Join(rows, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, cards, items)
}

func (m *ResultModel) renderGroceryItem(index int, item model.GroceryItem) string {
	chevron := "▸"
	if m.expanded == index {
		chevron = "▾"
	}

	name := m.theme.Bold.Render(item.Name)
	if index == m.cursor {
		name = m.theme.Selected.Render(item.Name)
	}
	icon := m.theme.CategoryIcon.Render(themes.GetCategoryIcon(item.Category))
	meta := m.theme.Subtitle.Render(item.Quantity + " • " + item.Category)
	cost := m.theme.Amount.Render(m.formatter.Format(item.ApproxCost))

	header := icon + " " + name + "  " + cost + " " + chevron
	row := header + "\n" + "    " + meta

	if m.expanded == index && len(item.PriceComparison) > 0 {
		row += "\n" + m.renderPriceComparison(item.PriceComparison)
	}
	return row
}

func (m *ResultModel) renderPriceComparison(entries []model.VendorPrice) string {
	lines := []string{m.theme.Bold.Render("Price Comparison")}
	for _, entry := range entries {
		line := "  " + m.theme.Normal.Render(entry.Vendor) + "  " + m.theme.Amount.Render(m.formatter.Format(entry.Price))
		if entry.URL != "" {
			line += "\n    " + m.theme.StatusInfo.Render("Shop on "+entry.Vendor+" → "+entry.URL)
		}
		if entry.QualityNotes != "" {
			line += "\n    " + m.theme.Italic.Render("“"+entry.QualityNotes+"”")
		}
		lines = append(lines, line)
	}
	lines = append(lines, m.theme.Italic.Render("*Prices and links are AI-generated. Availability and final prices must be verified on the vendor's site."))
	return strings.Join(lines, "\n")
}

// renderDocument renders a generic structured response: every top-level key
// becomes a titled section and values recurse through renderValue.
func (m *ResultModel) renderDocument(doc ai.Value) string {
	if doc.Kind != ai.KindMap {
		return m.renderValue(doc, 0)
	}
	sections := make([]string, 0, len(doc.Keys))
	for _, key := range doc.Keys {
		title := m.theme.Title.Render(FormatKey(key))
		body := m.renderEntry(key, doc.Map[key], 0)
		sections = append(sections, m.theme.BorderedBox.Render(title+"\n"+body))
	}
	return strings.Join(sections, "\n")
}

// renderEntry dispatches the specially rendered keys at any depth before
// falling through to the generic renderer.
func (m *ResultModel) renderEntry(key string, value ai.Value, depth int) string {
	switch {
	case key == "architecture_diagram" && value.Kind == ai.KindString:
		return renderCodeBlock(value.Str, "mermaid", m.width)
	case key == "one_page_readme" && value.Kind == ai.KindString:
		return renderMarkdown(value.Str, m.width)
	case key == "data_schema" && value.Kind == ai.KindString:
		return renderCodeBlock(value.Str, "sql", m.width)
	case key == "sample_synthetic_data" && value.Kind == ai.KindMap:
		content, hasContent := value.Get("content")
		filename, hasName := value.Get("filename")
		if hasContent && content.Kind == ai.KindString {
			block := renderCodeBlock(content.Str, "json", m.width)
			if hasName && filename.Kind == ai.KindString {
				return m.theme.Code.Render(filename.Str) + "\n" + block
			}
			return block
		}
	}
	return m.renderValue(value, depth)
}

func (m *ResultModel) renderValue(value ai.Value, depth int) string {
	switch value.Kind {
	case ai.KindString, ai.KindBool, ai.KindNull:
		return m.theme.Normal.Render(value.Text())
	case ai.KindNumber:
		return m.theme.Amount.Render(value.Text())
	case ai.KindList:
		panels := make([]string, 0, len(value.List))
		for _, item := range value.List {
			panels = append(panels, m.theme.RoundedBox.Render(m.renderValue(item, depth+1)))
		}
		return strings.Join(panels, "\n")
	case ai.KindMap:
		pairs := make([]string, 0, len(value.Keys))
		for _, key := range value.Keys {
			label := m.theme.Subtitle.Render(FormatKey(key))
			pairs = append(pairs, label+"\n"+m.renderEntry(key, value.Map[key], depth+1))
		}
		return strings.Join(pairs, "\n")
	default:
		return ""
	}
}

// FormatKey turns a machine key into a human title: separators become
// spaces, only the first letter is capitalized.
func FormatKey(key string) string {
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.ReplaceAll(key, "-", " ")
	if key == "" {
		return ""
	}
	// Keys can start with non-ASCII runes (AI output is not always English).
	first, size := utf8.DecodeRuneInString(key)
	return string(unicode.ToUpper(first)) + key[size:]
}
