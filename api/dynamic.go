package api

import (
	"context"
	"sync"

	"github.com/prashil107/attendance/config"
	"github.com/prashil107/attendance/model"
	"github.com/rs/zerolog"
)

// Dynamic follows a reloadable endpoint configuration, building a new
// Client whenever the endpoint settings change.
type Dynamic struct {
	endpoint func() config.Endpoint
	mutex    sync.Mutex
	current  config.Endpoint
	client   *Client
}

func NewDynamic(endpoint func() config.Endpoint) *Dynamic {
	return &Dynamic{endpoint: endpoint}
}

func (d *Dynamic) Client() *Client {
	endpoint := d.endpoint()

	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.client == nil || d.current != endpoint {
		if d.client != nil {
			d.client.httpClient.CloseIdleConnections()
		}
		d.current = endpoint
		d.client = New(endpoint)
	}
	return d.client
}

func (d *Dynamic) SubmitAttendance(ctx context.Context, log zerolog.Logger, attendance model.AttendanceRequest) error {
	return d.Client().SubmitAttendance(ctx, log, attendance)
}
