// Package tui is the terminal rendition of the attendance form.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prashil107/attendance/model"
	"github.com/prashil107/attendance/submission"
)

type focus int

const (
	focusStudentID focus = iota
	focusStudentName
	focusAction
	focusCount
)

type Submitter interface {
	Submit(ctx context.Context, form submission.Form, display submission.Display) submission.Result
}

// submittedMsg carries the outcome of one submission back into Update.
type submittedMsg struct {
	message model.DisplayMessage
	reset   bool
}

// formSnapshot is the form as it was when Enter was pressed.
type formSnapshot struct {
	values submission.Values
	reset  bool
}

func (f *formSnapshot) Values() submission.Values {
	return f.values
}

func (f *formSnapshot) Reset() {
	f.reset = true
}

type uiModel struct {
	ctx       context.Context
	submitter Submitter
	inputs    [2]textinput.Model
	action    model.Action
	focus     focus
	message   *model.DisplayMessage
	pending   int
	styles    styleMap
}

func initialModel(ctx context.Context, submitter Submitter) uiModel {
	studentID := textinput.New()
	studentID.Placeholder = "Student ID"
	studentID.CharLimit = 64
	studentID.Focus()

	studentName := textinput.New()
	studentName.Placeholder = "Student name"
	studentName.CharLimit = 200

	return uiModel{
		ctx:       ctx,
		submitter: submitter,
		inputs:    [2]textinput.Model{studentID, studentName},
		action:    model.DefaultAction(),
		focus:     focusStudentID,
		styles:    newStyleMap(),
	}
}

func (m uiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		m.pending--
		message := msg.message
		m.message = &message
		if msg.reset {
			m.reset()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m, m.setFocus((m.focus + 1) % focusCount)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
		case tea.KeyEnter:
			m.pending++
			m.message = nil
			return m, m.submit()
		}

		if m.focus == focusAction {
			switch msg.Type {
			case tea.KeyRight, tea.KeySpace:
				m.action = m.action.Next()
			case tea.KeyLeft:
				m.action = m.action.Prev()
			}
			return m, nil
		}
	}

	if m.focus == focusAction {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *uiModel) setFocus(f focus) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if focus(i) == f {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *uiModel) reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.action = model.DefaultAction()
	m.setFocus(focusStudentID)
}

// submit snapshots the form, the request itself runs outside Update.
func (m uiModel) submit() tea.Cmd {
	form := &formSnapshot{values: submission.Values{
		StudentID:   m.inputs[focusStudentID].Value(),
		StudentName: m.inputs[focusStudentName].Value(),
		Action:      m.action,
	}}
	ctx := m.ctx
	submitter := m.submitter

	return func() tea.Msg {
		var shown model.DisplayMessage
		submitter.Submit(ctx, form, submission.DisplayFunc(func(message model.DisplayMessage) {
			shown = message
		}))
		return submittedMsg{message: shown, reset: form.reset}
	}
}

func (m uiModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.titleStyle.Render("Mark attendance"))
	b.WriteString("\n")

	labels := [2]string{"Student ID", "Student name"}
	for i, input := range m.inputs {
		b.WriteString(m.label(labels[i], focus(i)))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.label("Action", focusAction))
	b.WriteString("\n")
	b.WriteString(m.actionView())
	b.WriteString("\n\n")

	if m.message != nil {
		style := m.styles.successStyle
		if m.message.IsError {
			style = m.styles.errorStyle
		}
		b.WriteString(style.Render(m.message.Text))
		b.WriteString("\n")
	} else if m.pending > 0 {
		b.WriteString(m.styles.labelStyle.Render("Submitting..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.helpStyle.Render("tab: next field • ←/→: change action • enter: submit • esc: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m uiModel) label(text string, f focus) string {
	if m.focus == f {
		return m.styles.focusStyle.Render("> " + text)
	}
	return m.styles.labelStyle.Render("  " + text)
}

func (m uiModel) actionView() string {
	parts := make([]string, len(model.Actions))
	for i, action := range model.Actions {
		if action == m.action {
			parts[i] = "(•) " + string(action)
		} else {
			parts[i] = "( ) " + string(action)
		}
	}
	view := strings.Join(parts, "   ")
	if m.focus == focusAction {
		return m.styles.focusStyle.Render(view)
	}
	return view
}

// Run starts the terminal form and blocks until the user quits.
func Run(ctx context.Context, submitter Submitter) error {
	p := tea.NewProgram(initialModel(ctx, submitter), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
