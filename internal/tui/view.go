package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Screen texts.
const (
	ListTitle      = "Students"
	AddTitle       = "Add student"
	EditTitle      = "Edit student"
	AddedMessage   = "Student added successfully."
	LoadingMessage = "Loading students..."
	SavingMessage  = "Saving..."

	LoadErrorMessage = "Could not load students"
)

// View renders the active screen with any overlay on top.
func (m Model) View() string {
	switch {
	case m.alert != "":
		return m.place(m.alertView())
	case m.confirm != nil:
		return m.place(m.confirmView())
	case m.modalOpen:
		return m.place(m.modalView())
	case m.view == ViewAdd:
		return m.addView()
	}
	return m.listView()
}

func (m Model) place(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHeader(title string) string {
	return HeaderStyle.Render("Student Roster") + DimStyle.Render("  ›  ") + TitleStyle.Render(title)
}

func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(m.renderHeader(ListTitle))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(DimStyle.Render(LoadingMessage))
		b.WriteString("\n\n")
	} else if m.loadErr != nil {
		b.WriteString(ErrorStyle.Render(LoadErrorMessage + ": " + m.loadErr.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(PanelStyle.Render(m.table.view()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) addView() string {
	var b strings.Builder
	b.WriteString(m.renderHeader(AddTitle))
	b.WriteString("\n\n")

	if m.add.Submitted() {
		body := SuccessStyle.Render(AddedMessage) + "\n\n" +
			HelpKeyStyle.Render("n") + DimStyle.Render(" add another   ") +
			HelpKeyStyle.Render("esc") + DimStyle.Render(" back to list")
		b.WriteString(PanelStyle.Render(body))
		b.WriteString("\n")
		b.WriteString(m.renderStatusBar())
		return b.String()
	}

	body := m.addForm.view(m.add.Form())
	if m.add.InFlight() {
		body += "\n\n" + m.spinner.View() + " " + DimStyle.Render(SavingMessage)
	}
	b.WriteString(PanelStyle.Render(body))
	b.WriteString("\n")
	b.WriteString(m.help.View(formKeys(m.keys)))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) modalView() string {
	f := m.edit.Form()
	body := TitleStyle.Render(EditTitle) + "\n\n" + m.editForm.view(f)
	if f.InFlight() {
		body += "\n\n" + m.spinner.View() + " " + DimStyle.Render(SavingMessage)
	}
	body += "\n\n" + m.help.View(formKeys(m.keys))
	return ModalStyle.Render(body)
}

func (m Model) alertView() string {
	body := ErrorStyle.Bold(true).Render("Error") + "\n\n" + m.alert + "\n\n" +
		DimStyle.Render("Press enter to dismiss")
	return AlertStyle.Render(body)
}

func (m Model) confirmView() string {
	body := WarningStyle.Bold(true).Render("Confirm") + "\n\n" + m.confirm.prompt + "\n\n" +
		HelpKeyStyle.Render("y") + DimStyle.Render(" yes   ") +
		HelpKeyStyle.Render("n") + DimStyle.Render(" no")
	return ConfirmStyle.Render(body)
}

func (m Model) renderStatusBar() string {
	if m.flash != "" {
		return StatusBarStyle.Render(SuccessStyle.Render(m.flash))
	}
	if m.view == ViewList {
		return StatusBarStyle.Render(m.help.View(m.keys))
	}
	return ""
}

// rect is a screen region in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// modalBounds returns where place puts the edit modal.
func (m Model) modalBounds() rect {
	box := m.modalView()
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	return rect{
		x: max((m.width-w)/2, 0),
		y: max((m.height-h)/2, 0),
		w: w,
		h: h,
	}
}
