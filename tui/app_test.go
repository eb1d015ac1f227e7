package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prashil107/attendance/api"
	"github.com/prashil107/attendance/model"
	"github.com/prashil107/attendance/submission"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitterFunc func(attendance model.AttendanceRequest) error

func (f submitterFunc) SubmitAttendance(_ context.Context, _ zerolog.Logger, attendance model.AttendanceRequest) error {
	return f(attendance)
}

func newTestModel(submit submitterFunc) uiModel {
	return initialModel(context.Background(), submission.New(zerolog.Nop(), submit, nil))
}

func typeText(m uiModel, text string) uiModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(uiModel)
}

func press(m uiModel, key tea.KeyType) (uiModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(uiModel), cmd
}

// submitAndDeliver presses enter, runs the submission and feeds its result back.
func submitAndDeliver(t *testing.T, m uiModel) uiModel {
	t.Helper()
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.pending)
	next, _ := m.Update(cmd())
	return next.(uiModel)
}

func fillForm(m uiModel) uiModel {
	m = typeText(m, "S-1024")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "Ada Lovelace")
	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyRight)
	return m
}

func TestUI_SubmitSuccess(t *testing.T) {
	var received []model.AttendanceRequest
	m := newTestModel(func(attendance model.AttendanceRequest) error {
		received = append(received, attendance)
		return nil
	})

	m = fillForm(m)
	assert.Equal(t, focusAction, m.focus)
	assert.Equal(t, model.ActionCheckOut, m.action)

	m = submitAndDeliver(t, m)

	require.Len(t, received, 1)
	assert.Equal(t, model.AttendanceRequest{StudentID: "S-1024", StudentName: "Ada Lovelace", Action: model.ActionCheckOut}, received[0])
	require.NotNil(t, m.message)
	assert.Equal(t, model.DisplayMessage{Text: submission.MessageSuccess}, *m.message)
	assert.Empty(t, m.inputs[focusStudentID].Value())
	assert.Empty(t, m.inputs[focusStudentName].Value())
	assert.Equal(t, model.DefaultAction(), m.action)
	assert.Equal(t, focusStudentID, m.focus)
	assert.Equal(t, 0, m.pending)
	assert.Contains(t, m.View(), submission.MessageSuccess)
}

func TestUI_SubmitMissingFields(t *testing.T) {
	m := newTestModel(func(attendance model.AttendanceRequest) error {
		t.Fatal("no request expected")
		return nil
	})

	m = typeText(m, "S-1024")
	m = submitAndDeliver(t, m)

	require.NotNil(t, m.message)
	assert.Equal(t, model.DisplayMessage{Text: submission.MessageMissingFields, IsError: true}, *m.message)
	assert.Equal(t, "S-1024", m.inputs[focusStudentID].Value())
	assert.Contains(t, m.View(), submission.MessageMissingFields)
}

func TestUI_SubmitServerError(t *testing.T) {
	m := newTestModel(func(attendance model.AttendanceRequest) error {
		return &api.ServerError{StatusCode: 409, Message: "Already checked in"}
	})

	m = fillForm(m)
	m = submitAndDeliver(t, m)

	require.NotNil(t, m.message)
	assert.Equal(t, "Error: Already checked in", m.message.Text)
	assert.True(t, m.message.IsError)
	assert.Equal(t, "Ada Lovelace", m.inputs[focusStudentName].Value())
	assert.Equal(t, model.ActionCheckOut, m.action)
}

func TestUI_Navigation(t *testing.T) {
	m := newTestModel(nil)
	assert.True(t, m.inputs[focusStudentID].Focused())

	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, focusAction, m.focus)
	assert.False(t, m.inputs[focusStudentID].Focused())

	m, _ = press(m, tea.KeySpace)
	assert.Equal(t, model.ActionCheckOut, m.action)
	m, _ = press(m, tea.KeyLeft)
	assert.Equal(t, model.ActionCheckIn, m.action)

	m = typeText(m, "ignored")
	assert.Empty(t, m.inputs[focusStudentID].Value())
	assert.Empty(t, m.inputs[focusStudentName].Value())

	m, _ = press(m, tea.KeyDown)
	assert.Equal(t, focusStudentID, m.focus)
	assert.True(t, m.inputs[focusStudentID].Focused())
}

func TestUI_Quit(t *testing.T) {
	m := newTestModel(nil)

	_, cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestUI_PendingView(t *testing.T) {
	m := newTestModel(nil)
	m.pending = 1

	assert.Contains(t, m.View(), "Submitting...")
	assert.Contains(t, m.View(), "(•) check-in")
}

func TestUI_ResubmitClearsMessage(t *testing.T) {
	m := newTestModel(func(model.AttendanceRequest) error {
		return &api.ServerError{StatusCode: 409, Message: "Already checked in"}
	})
	m = fillForm(m)
	m = submitAndDeliver(t, m)
	require.NotNil(t, m.message)
	assert.Contains(t, m.View(), "Error: Already checked in")

	m, cmd := press(m, tea.KeyEnter)

	require.NotNil(t, cmd)
	assert.Nil(t, m.message)
	assert.Contains(t, m.View(), "Submitting...")
	assert.NotContains(t, m.View(), "Already checked in")
}
