package submission

import (
	"context"

	"github.com/prashil107/attendance/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitAttendance(ctx context.Context, log zerolog.Logger, attendance model.AttendanceRequest) error {
	args := m.Called(ctx, log, attendance)
	return args.Error(0)
}

func NewMockSubmitter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSubmitter {
	m := &MockSubmitter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
