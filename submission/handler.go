// Package submission turns a filled attendance form into exactly one
// display message, issuing at most one request to the attendance endpoint.
package submission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prashil107/attendance/api"
	"github.com/prashil107/attendance/collector"
	"github.com/prashil107/attendance/model"
	"github.com/rs/zerolog"
)

const (
	MessageMissingFields = "Please fill in all fields."
	MessageInvalidAction = "Please select a valid action."
	MessageSuccess       = "Attendance marked successfully!"
	MessageErrorPrefix   = "Error: "
	MessageFailedDefault = "Failed to mark attendance"
	MessageNetworkError  = "Network error. Please try again."
)

type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeValidationError Outcome = "validation_error"
	OutcomeServerError     Outcome = "server_error"
	OutcomeTransportError  Outcome = "transport_error"
)

type Form interface {
	Values() Values
	Reset()
}

type Display interface {
	Show(message model.DisplayMessage)
}

// DisplayFunc adapts a plain function to Display.
type DisplayFunc func(message model.DisplayMessage)

func (f DisplayFunc) Show(message model.DisplayMessage) {
	f(message)
}

type Submitter interface {
	SubmitAttendance(ctx context.Context, log zerolog.Logger, attendance model.AttendanceRequest) error
}

type Result struct {
	Message model.DisplayMessage
	Outcome Outcome
	Err     error
}

type Handler struct {
	log       zerolog.Logger
	submitter Submitter
	metrics   *collector.Submissions
	validate  *validator.Validate
}

// New returns a Handler. metrics may be nil.
func New(log zerolog.Logger, submitter Submitter, metrics *collector.Submissions) *Handler {
	return &Handler{
		log:       log,
		submitter: submitter,
		metrics:   metrics,
		validate:  validator.New(),
	}
}

func (h *Handler) Submit(ctx context.Context, form Form, display Display) Result {
	result := h.submit(ctx, form)
	if h.metrics != nil {
		h.metrics.Observe(string(result.Outcome))
	}
	display.Show(result.Message)
	return result
}

func (h *Handler) submit(ctx context.Context, form Form) Result {
	values := form.Values()
	attendance := model.AttendanceRequest{
		StudentID:   strings.TrimSpace(values.StudentID),
		StudentName: strings.TrimSpace(values.StudentName),
		Action:      values.Action,
	}

	log := h.log.With().Str("student_id", attendance.StudentID).Str("action", string(attendance.Action)).Logger()

	if err := h.validate.Struct(attendance); err != nil {
		log.Warn().Err(err).Msg("submission rejected")
		return Result{
			Message: model.DisplayMessage{Text: validationMessage(err), IsError: true},
			Outcome: OutcomeValidationError,
			Err:     err,
		}
	}

	start := time.Now()
	err := h.submitter.SubmitAttendance(ctx, log, attendance)
	if h.metrics != nil {
		h.metrics.ObserveRequest(time.Since(start).Seconds())
	}

	if err == nil {
		log.Info().Msg("attendance marked")
		form.Reset()
		return Result{
			Message: model.DisplayMessage{Text: MessageSuccess},
			Outcome: OutcomeSuccess,
		}
	}

	var serverError *api.ServerError
	if errors.As(err, &serverError) {
		log.Error().Err(err).Msg("attendance rejected by endpoint")
		message := serverError.Message
		if message == "" {
			message = MessageFailedDefault
		}
		return Result{
			Message: model.DisplayMessage{Text: MessageErrorPrefix + message, IsError: true},
			Outcome: OutcomeServerError,
			Err:     err,
		}
	}

	log.Error().Err(err).Msg("attendance request failed")
	return Result{
		Message: model.DisplayMessage{Text: MessageNetworkError, IsError: true},
		Outcome: OutcomeTransportError,
		Err:     err,
	}
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			if fieldError.Tag() == "required" {
				return MessageMissingFields
			}
		}
		return MessageInvalidAction
	}
	return MessageMissingFields
}
