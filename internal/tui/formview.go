package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aanand-mishra/students-roster/internal/form"
	"github.com/aanand-mishra/students-roster/internal/validation"
)

var fieldLabels = map[string]string{
	form.Name:   "Name",
	form.Email:  "Email",
	form.Branch: "Branch",
}

// formView renders a form.Form as three text inputs followed by buttons.
// Focus moves over the inputs first, then the buttons.
type formView struct {
	inputs  []textinput.Model
	buttons []string
	focus   int
}

func newFormView(buttons ...string) formView {
	inputs := make([]textinput.Model, len(form.Fields))
	for i, name := range form.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 128
		ti.Width = 40
		switch name {
		case form.Name:
			ti.Placeholder = "at least 3 characters"
		case form.Email:
			ti.Placeholder = "name@example.com"
		case form.Branch:
			ti.Placeholder = "program code"
			if codes := validation.Branches(); len(codes) > 0 {
				ti.Placeholder = strings.Join(codes, ", ")
			}
		}
		inputs[i] = ti
	}
	return formView{inputs: inputs, buttons: buttons}
}

// load copies the values of src into the inputs and focuses the first one.
func (f *formView) load(src *form.Form) tea.Cmd {
	for i, name := range form.Fields {
		f.inputs[i].SetValue(src.Value(name))
		f.inputs[i].CursorEnd()
	}
	return f.setFocus(0)
}

func (f *formView) slots() int {
	return len(f.inputs) + len(f.buttons)
}

func (f *formView) setFocus(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// move shifts focus by delta, wrapping around.
func (f *formView) move(delta int) tea.Cmd {
	n := f.slots()
	return f.setFocus(((f.focus+delta)%n + n) % n)
}

// button returns the focused button's index.
func (f formView) button() (int, bool) {
	i := f.focus - len(f.inputs)
	return i, i >= 0 && i < len(f.buttons)
}

// update forwards msg to the focused input and reports a changed value.
func (f *formView) update(msg tea.Msg) (field, value string, changed bool, cmd tea.Cmd) {
	if f.focus >= len(f.inputs) {
		return "", "", false, nil
	}
	in := &f.inputs[f.focus]
	before := in.Value()
	*in, cmd = in.Update(msg)
	if in.Value() == before {
		return "", "", false, cmd
	}
	return form.Fields[f.focus], in.Value(), true, cmd
}

func (f formView) view(src *form.Form) string {
	var b strings.Builder
	for i, name := range form.Fields {
		v := src.Validity(name)

		box := InputStyle
		switch {
		case v.State == form.Invalid:
			box = InvalidInputStyle
		case i == f.focus:
			box = FocusedInputStyle
		}

		row := lipgloss.JoinHorizontal(lipgloss.Center,
			LabelStyle.Render(fieldLabels[name]),
			box.Render(f.inputs[i].View()),
		)
		b.WriteString(row)
		b.WriteString("\n")
		if v.State == form.Invalid {
			b.WriteString(LabelStyle.Render(""))
			b.WriteString(ErrorStyle.Render(invalidText(v)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	btns := make([]string, len(f.buttons))
	focused, ok := f.button()
	for i, label := range f.buttons {
		style := ButtonStyle
		if ok && i == focused {
			style = FocusedButtonStyle
		}
		btns[i] = style.Render(label)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, btns...))
	return b.String()
}

func invalidText(v form.Validity) string {
	if v.Message != "" {
		return v.Message
	}
	return v.Reason
}
