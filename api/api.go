package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/prashil107/attendance/config"
	"github.com/prashil107/attendance/model"
	"github.com/rs/zerolog"
)

// maxErrorBody bounds how much of a failure response is read.
const maxErrorBody = 64 << 10

// ServerError is returned when the endpoint answers with a non-2xx status.
// Message is empty when the body carried no usable message.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("endpoint responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("endpoint responded with status %d: %s", e.StatusCode, e.Message)
}

// TransportError is returned when the request could not be completed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Client struct {
	endpoint   config.Endpoint
	httpClient *http.Client
}

func New(endpoint config.Endpoint) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 5,
				TLSClientConfig:     &tls.Config{InsecureSkipVerify: endpoint.InsecureSkipVerify},
			},
			Timeout: endpoint.Timeout,
		},
	}
}

func (c *Client) URL() string {
	return c.endpoint.URL
}

func (c *Client) request(ctx context.Context, log zerolog.Logger, method string, data interface{}) (res *http.Response, err error) {
	var buf io.Reader
	if data != nil {
		body, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewBuffer(body)
	}

	log.Debug().Str("method", method).Str("url", c.endpoint.URL).Msg("send request")

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint.URL, buf)
	if err != nil {
		return
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// SubmitAttendance posts one attendance record. It returns nil on any 2xx
// status, a *ServerError on other statuses and a *TransportError when no
// response was received.
func (c *Client) SubmitAttendance(ctx context.Context, log zerolog.Logger, attendance model.AttendanceRequest) error {
	res, err := c.request(ctx, log, http.MethodPost, attendance)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer res.Body.Close()

	log.Debug().Int("status", res.StatusCode).Msg("response")

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	log.Error().Int("status", res.StatusCode).Str("response", string(data)).Msg("error from API")

	return &ServerError{
		StatusCode: res.StatusCode,
		Message:    parseErrorMessage(data),
	}
}

func parseErrorMessage(data []byte) string {
	var errorResponse model.ErrorResponse
	if err := json.Unmarshal(data, &errorResponse); err != nil {
		return ""
	}
	return errorResponse.Message
}
