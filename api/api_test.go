package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/prashil107/attendance/config"
	"github.com/prashil107/attendance/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpointHost = "https://attendance.test"
const testEndpointPath = "/prod/attendance"

var testAttendance = model.AttendanceRequest{
	StudentID:   "S-1024",
	StudentName: "Ada Lovelace",
	Action:      model.ActionCheckIn,
}

func newTestClient() *Client {
	client := New(config.Endpoint{
		URL:     testEndpointHost + testEndpointPath,
		Timeout: time.Second,
	})
	gock.InterceptClient(client.httpClient)
	return client
}

func TestSubmitAttendance(t *testing.T) {
	log := zerolog.Nop()

	t.Run("success", func(t *testing.T) {
		defer gock.Off()
		gock.New(testEndpointHost).
			Post(testEndpointPath).
			JSON(`{"studentId":"S-1024","studentName":"Ada Lovelace","action":"check-in"}`).
			Reply(200).
			JSON(map[string]string{"status": "ok"})

		err := newTestClient().SubmitAttendance(context.Background(), log, testAttendance)

		assert.NoError(t, err)
		assert.True(t, gock.IsDone())
	})

	t.Run("created", func(t *testing.T) {
		defer gock.Off()
		gock.New(testEndpointHost).
			Post(testEndpointPath).
			Reply(http.StatusCreated)

		err := newTestClient().SubmitAttendance(context.Background(), log, testAttendance)

		assert.NoError(t, err)
		assert.True(t, gock.IsDone())
	})

	t.Run("server error with message", func(t *testing.T) {
		defer gock.Off()
		gock.New(testEndpointHost).
			Post(testEndpointPath).
			Reply(http.StatusConflict).
			JSON(map[string]string{"message": "Already checked in"})

		err := newTestClient().SubmitAttendance(context.Background(), log, testAttendance)

		var serverError *ServerError
		require.ErrorAs(t, err, &serverError)
		assert.Equal(t, http.StatusConflict, serverError.StatusCode)
		assert.Equal(t, "Already checked in", serverError.Message)
		assert.True(t, gock.IsDone())
	})

	t.Run("server error without message", func(t *testing.T) {
		defer gock.Off()
		gock.New(testEndpointHost).
			Post(testEndpointPath).
			Reply(http.StatusInternalServerError).
			JSON(map[string]string{"error": "boom"})

		err := newTestClient().SubmitAttendance(context.Background(), log, testAttendance)

		var serverError *ServerError
		require.ErrorAs(t, err, &serverError)
		assert.Equal(t, http.StatusInternalServerError, serverError.StatusCode)
		assert.Empty(t, serverError.Message)
	})

	t.Run("server error with non-json body", func(t *testing.T) {
		defer gock.Off()
		gock.New(testEndpointHost).
			Post(testEndpointPath).
			Reply(http.StatusBadGateway).
			BodyString("<html>Bad Gateway</html>")

		err := newTestClient().SubmitAttendance(context.Background(), log, testAttendance)

		var serverError *ServerError
		require.ErrorAs(t, err, &serverError)
		assert.Equal(t, http.StatusBadGateway, serverError.StatusCode)
		assert.Empty(t, serverError.Message)
	})

	t.Run("transport error", func(t *testing.T) {
		defer gock.Off()
		gock.New(testEndpointHost).
			Post(testEndpointPath).
			ReplyError(errors.New("network is unreachable"))

		err := newTestClient().SubmitAttendance(context.Background(), log, testAttendance)

		var transportError *TransportError
		require.ErrorAs(t, err, &transportError)
		assert.Contains(t, err.Error(), "network is unreachable")
	})

	t.Run("cancelled context", func(t *testing.T) {
		defer gock.Off()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := newTestClient().SubmitAttendance(ctx, log, testAttendance)

		var transportError *TransportError
		assert.ErrorAs(t, err, &transportError)
	})
}

func TestServerErrorMessage(t *testing.T) {
	assert.Equal(t, "endpoint responded with status 409: Already checked in",
		(&ServerError{StatusCode: 409, Message: "Already checked in"}).Error())
	assert.Equal(t, "endpoint responded with status 500",
		(&ServerError{StatusCode: 500}).Error())
}

func TestParseErrorMessage(t *testing.T) {
	assert.Equal(t, "Already checked in", parseErrorMessage([]byte(`{"message":"Already checked in"}`)))
	assert.Empty(t, parseErrorMessage([]byte(`{"message":42}`)))
	assert.Empty(t, parseErrorMessage([]byte(`null`)))
	assert.Empty(t, parseErrorMessage(nil))
}
