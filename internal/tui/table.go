package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aanand-mishra/students-roster/internal/types"
)

// Table texts.
const (
	EmptyTableText   = "No students found. Add a new student to get started."
	NoMatchTableText = "No matching students found"
	SearchPrompt     = "Search: "
	allRows          = -1
	searchWidth      = 40
)

// headerHeight is the number of lines the bubbles table spends on its
// header: the titles plus the bottom border from tableStyles.
var headerHeight = lipgloss.Height(tableStyles().Header.Render("ID"))

var defaultPageLengths = []int{5, 10, 20, allRows}

// studentTable is the table widget: a bubbles table showing one page of the
// filtered rows, a paginator and a search input. It is rebuilt from scratch
// on every render and never diffs.
type studentTable struct {
	table     table.Model
	paginator paginator.Model
	search    textinput.Model

	all      []types.Student
	filtered []types.Student

	pageLengths []int
	lengthIdx   int
}

func newStudentTable(pageLength int, pageLengths []int) studentTable {
	if len(pageLengths) == 0 {
		pageLengths = defaultPageLengths
	}
	idx := 0
	for i, n := range pageLengths {
		if n == pageLength {
			idx = i
			break
		}
	}

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithStyles(tableStyles()),
	)

	p := paginator.New()
	p.Type = paginator.Arabic

	search := textinput.New()
	search.Prompt = SearchPrompt
	search.Placeholder = "name, email or branch"
	search.CharLimit = 64
	search.Width = searchWidth

	st := studentTable{
		table:       t,
		paginator:   p,
		search:      search,
		pageLengths: pageLengths,
		lengthIdx:   idx,
	}
	st.refresh()
	return st
}

func columns(width int) []table.Column {
	rest := max(width-8-10-6, 30)
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: rest * 2 / 5},
		{Title: "Email", Width: rest * 3 / 5},
		{Title: "Branch", Width: 8},
	}
}

// teardown drops every row.
func (t *studentTable) teardown() {
	t.all = nil
	t.filtered = nil
	t.paginator.Page = 0
	t.refresh()
}

// render rebuilds the table from students, keeping the search query.
func (t *studentTable) render(students []types.Student) {
	t.all = students
	t.paginator.Page = 0
	t.refresh()
}

func (t *studentTable) setWidth(width int) {
	t.table.SetColumns(columns(width))
	t.table.SetWidth(width)
}

// PageLength returns the current page length, allRows meaning no paging.
func (t *studentTable) PageLength() int {
	return t.pageLengths[t.lengthIdx]
}

func (t *studentTable) cyclePageLength() {
	t.lengthIdx = (t.lengthIdx + 1) % len(t.pageLengths)
	t.paginator.Page = 0
	t.refresh()
}

func (t *studentTable) nextPage() {
	t.paginator.NextPage()
	t.refresh()
}

func (t *studentTable) prevPage() {
	t.paginator.PrevPage()
	t.refresh()
}

// refresh applies the search filter and page bounds to the bubbles table.
func (t *studentTable) refresh() {
	t.filtered = filterStudents(t.all, t.search.Value())

	perPage := t.PageLength()
	if perPage == allRows {
		perPage = max(len(t.filtered), 1)
	}
	t.paginator.PerPage = perPage
	if len(t.filtered) == 0 {
		t.paginator.TotalPages = 1
	} else {
		t.paginator.SetTotalPages(len(t.filtered))
	}
	if t.paginator.Page >= t.paginator.TotalPages {
		t.paginator.Page = max(t.paginator.TotalPages-1, 0)
	}

	page := t.page()
	rows := make([]table.Row, 0, len(page))
	for _, s := range page {
		rows = append(rows, table.Row{strconv.FormatInt(s.ID, 10), s.Name, s.Email, s.Branch})
	}
	t.table.SetRows(rows)
	t.table.SetHeight(len(rows) + headerHeight)
	// An empty table leaves the cursor at -1; pull it back onto a row.
	if n := len(rows); n > 0 {
		if c := t.table.Cursor(); c < 0 || c >= n {
			t.table.SetCursor(min(max(c, 0), n-1))
		}
	}
}

func (t *studentTable) page() []types.Student {
	if len(t.filtered) == 0 {
		return nil
	}
	start, end := t.paginator.GetSliceBounds(len(t.filtered))
	return t.filtered[start:end]
}

// selected returns the student under the cursor.
func (t *studentTable) selected() (types.Student, bool) {
	page := t.page()
	cursor := t.table.Cursor()
	if cursor < 0 || cursor >= len(page) {
		return types.Student{}, false
	}
	return page[cursor], true
}

func (t *studentTable) searching() bool {
	return t.search.Focused()
}

func (t *studentTable) focusSearch() tea.Cmd {
	t.table.Blur()
	return t.search.Focus()
}

func (t *studentTable) blurSearch() {
	t.search.Blur()
	t.table.Focus()
}

// update routes a message to the search input while it has focus and to
// the bubbles table otherwise.
func (t *studentTable) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if t.search.Focused() {
		before := t.search.Value()
		t.search, cmd = t.search.Update(msg)
		if t.search.Value() != before {
			t.paginator.Page = 0
			t.refresh()
		}
		return cmd
	}
	t.table, cmd = t.table.Update(msg)
	return cmd
}

// view renders the search line, the rows or the empty text, and the footer.
func (t studentTable) view() string {
	var b strings.Builder
	b.WriteString(t.search.View())
	b.WriteString("\n\n")

	switch {
	case len(t.all) == 0:
		b.WriteString(DimStyle.Render(EmptyTableText))
	case len(t.filtered) == 0:
		b.WriteString(DimStyle.Render(NoMatchTableText))
	default:
		b.WriteString(t.table.View())
	}
	b.WriteString("\n\n")
	b.WriteString(t.footer())
	return b.String()
}

func (t studentTable) footer() string {
	length := "All"
	if n := t.PageLength(); n != allRows {
		length = strconv.Itoa(n)
	}

	info := "Showing 0 to 0 of 0 entries"
	if n := len(t.filtered); n > 0 {
		start, end := t.paginator.GetSliceBounds(n)
		info = fmt.Sprintf("Showing %d to %d of %d entries", start+1, end, n)
	}
	if len(t.filtered) != len(t.all) {
		info += fmt.Sprintf(" (filtered from %d total entries)", len(t.all))
	}

	pages := ""
	if t.paginator.TotalPages > 1 {
		pages = "  page " + t.paginator.View()
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		DimStyle.Render(info),
		DimStyle.Render(pages),
		DimStyle.Render("  show "+length),
	)
}

// filterStudents keeps the students whose id, name, email or branch
// contains query, ignoring case. An empty query keeps everything.
func filterStudents(students []types.Student, query string) []types.Student {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return students
	}

	out := make([]types.Student, 0, len(students))
	for _, s := range students {
		haystack := strings.ToLower(strings.Join([]string{
			strconv.FormatInt(s.ID, 10), s.Name, s.Email, s.Branch,
		}, " "))
		if strings.Contains(haystack, query) {
			out = append(out, s)
		}
	}
	return out
}
