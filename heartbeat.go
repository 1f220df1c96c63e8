package gateway

import (
	"context"
	"sync/atomic"
	"time"
)

const HeartbeatStatusRunning = "running"

type heartbeat struct {
	LicenseKey string `json:"license_key"`
	HWID       string `json:"hwid"`
	Status     string `json:"status"`
}

// HeartbeatResult is the typed view of a heartbeat response.
type HeartbeatResult struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
	ServerTime *time.Time `json:"server_time,omitempty"`
}

// SendHeartbeat tells the API that licenseKey is still in use on hwid. The
// status defaults to "running".
func (c *Client) SendHeartbeat(ctx context.Context, licenseKey string, hwid string, options ...HeartbeatOption) (Result, error) {
	opts := HeartbeatOptions{Status: HeartbeatStatusRunning}
	for _, opt := range options {
		opt(&opts)
	}

	params := &heartbeat{
		LicenseKey: licenseKey,
		HWID:       hwid,
		Status:     opts.Status,
	}

	var result Result
	if _, err := c.Post(ctx, "/license-api/heartbeat", params, &result); err != nil {
		return nil, &OperationError{Op: OperationHeartbeat, Err: err}
	}

	return result, nil
}

type heartbeatTask struct {
	licenseKey string
	hwid       string
	interval   time.Duration
	cancel     context.CancelFunc
	done       chan struct{}

	// handling is set while the loop runs the heartbeat error handler.
	handling atomic.Bool
}

// StartHeartbeat sends a heartbeat for licenseKey right away and then once
// per interval on a background goroutine, until StopHeartbeat is called. A
// heartbeat that is already running is stopped first. Failed heartbeats are
// logged and reported to the heartbeat error handler; they never stop the
// loop. A non-positive interval means DefaultHeartbeatInterval.
//
// The error handler runs on the heartbeat goroutine and may itself call
// StartHeartbeat or StopHeartbeat.
func (c *Client) StartHeartbeat(licenseKey string, hwid string, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopHeartbeat()

	ctx, cancel := context.WithCancel(context.Background())
	task := &heartbeatTask{
		licenseKey: licenseKey,
		hwid:       hwid,
		interval:   interval,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	c.heartbeat = task

	c.log().Infof("Heartbeat started: interval=%s", interval)

	go c.monitor(ctx, task)
}

// StopHeartbeat cancels the running heartbeat, aborting any heartbeat in
// flight, and waits up to HeartbeatStopTimeout for the loop to exit. It is a
// no-op when no heartbeat is running. When the loop is inside the heartbeat
// error handler, StopHeartbeat does not wait: the loop exits as soon as the
// handler returns.
func (c *Client) StopHeartbeat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopHeartbeat()
}

// HeartbeatRunning reports whether a heartbeat loop has been started and not
// yet stopped.
func (c *Client) HeartbeatRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.heartbeat != nil
}

// stopHeartbeat must be called with c.mu held.
func (c *Client) stopHeartbeat() {
	task := c.heartbeat
	if task == nil {
		return
	}

	c.heartbeat = nil
	task.cancel()

	if task.handling.Load() {
		c.log().Infof("Heartbeat stopped from error handler")

		return
	}

	t := time.NewTimer(HeartbeatStopTimeout)
	defer t.Stop()

	select {
	case <-task.done:
		c.log().Infof("Heartbeat stopped")
	case <-t.C:
		c.log().Warnf("Heartbeat did not stop within %s", HeartbeatStopTimeout)
	}
}

func (c *Client) monitor(ctx context.Context, task *heartbeatTask) {
	defer close(task.done)

	for {
		if ctx.Err() != nil {
			return
		}

		if _, err := c.SendHeartbeat(ctx, task.licenseKey, task.hwid); err != nil {
			if ctx.Err() != nil {
				return
			}

			c.log().Warnf("Heartbeat error: %v", err)

			if !c.reportHeartbeatError(ctx, task, err) {
				return
			}
		}

		t := time.NewTimer(task.interval)

		select {
		case <-ctx.Done():
			t.Stop()

			return
		case <-t.C:
		}
	}
}

// reportHeartbeatError passes err to the heartbeat error handler. It reports
// false when the heartbeat was stopped before the handler could run.
func (c *Client) reportHeartbeatError(ctx context.Context, task *heartbeatTask, err error) bool {
	if c.onHeartbeatError == nil {
		return true
	}

	// Must be set before checking ctx so that stopHeartbeat either sees the
	// flag or the handler never runs.
	task.handling.Store(true)
	defer task.handling.Store(false)

	if ctx.Err() != nil {
		return false
	}

	c.onHeartbeatError(err)

	return true
}
