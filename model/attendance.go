package model

import (
	"fmt"
	"strings"
)

type Action string

const (
	ActionCheckIn  Action = "check-in"
	ActionCheckOut Action = "check-out"
)

// Actions lists the selectable actions in display order, the first one is the default.
var Actions = []Action{ActionCheckIn, ActionCheckOut}

func DefaultAction() Action {
	return Actions[0]
}

func ParseAction(value string) (Action, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, action := range Actions {
		if string(action) == value {
			return action, nil
		}
	}
	return "", fmt.Errorf("unknown action %q, expected one of %s", value, strings.Join(ActionNames(), ", "))
}

func ActionNames() []string {
	names := make([]string, len(Actions))
	for i, action := range Actions {
		names[i] = string(action)
	}
	return names
}

// Next returns the action following a in Actions, wrapping around.
func (a Action) Next() Action {
	for i, action := range Actions {
		if action == a {
			return Actions[(i+1)%len(Actions)]
		}
	}
	return DefaultAction()
}

// Prev returns the action preceding a in Actions, wrapping around.
func (a Action) Prev() Action {
	for i, action := range Actions {
		if action == a {
			return Actions[(i+len(Actions)-1)%len(Actions)]
		}
	}
	return DefaultAction()
}

type AttendanceRequest struct {
	StudentID   string `json:"studentId" validate:"required"`
	StudentName string `json:"studentName" validate:"required"`
	Action      Action `json:"action" validate:"oneof=check-in check-out"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
