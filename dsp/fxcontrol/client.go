// Package fxcontrol is the control-thread side of the effects engine: it
// assigns request ids, tracks requests in flight and correlates the
// responses coming back from the audio thread.
package fxcontrol

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxengine/dsp/fxpipe"
	"github.com/cwbudde/algo-fxengine/dsp/fxproto"
)

const (
	defaultPollInterval = time.Millisecond
	responseBatch       = 64
)

var errNilPipe = errors.New("fxcontrol: nil pipe")

// ResponseHandler is called by Poll for every response that matches a
// pending request.
type ResponseHandler func(req fxproto.Request, resp fxproto.Response)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for rejected and unmatched responses.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithPollInterval sets how often Flush polls for responses.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// Client wraps the control end of a pipe. It is safe for concurrent use by
// multiple control goroutines; the pipe still sees a single producer.
type Client struct {
	mu sync.Mutex

	pipe         *fxpipe.Pipe
	log          logrus.FieldLogger
	pollInterval time.Duration

	nextID    int64
	pending   map[int64]fxproto.Request
	handler   ResponseHandler
	unmatched int
	failed    int

	batch []fxproto.Response
}

type matched struct {
	req  fxproto.Request
	resp fxproto.Response
}

// NewClient creates a client sending through pipe.
func NewClient(pipe *fxpipe.Pipe, opts ...Option) (*Client, error) {
	if pipe == nil {
		return nil, errNilPipe
	}

	c := &Client{
		pipe:         pipe,
		log:          logrus.StandardLogger(),
		pollInterval: defaultPollInterval,
		pending:      make(map[int64]fxproto.Request),
		batch:        make([]fxproto.Response, responseBatch),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.log = c.log.WithField("component", "fxcontrol")

	return c, nil
}

// OnResponse registers the handler invoked by Poll. A nil handler removes it.
func (c *Client) OnResponse(handler ResponseHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler = handler
}

// Send assigns the next request id to req, records it as pending and
// enqueues it. When the pipe is full nothing is recorded and the error wraps
// fxpipe.ErrPipeFull.
func (c *Client) Send(req fxproto.Request) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req.ID = c.nextID + 1
	if err := c.pipe.Send(req); err != nil {
		return 0, fmt.Errorf("send %s: %w", req.Type, err)
	}

	c.nextID = req.ID
	c.pending[req.ID] = req

	return req.ID, nil
}

// Poll drains the available responses, resolves their pending requests and
// calls the response handler. It returns the number of responses read.
func (c *Client) Poll() int {
	c.mu.Lock()

	var (
		done    []matched
		handler = c.handler
		total   int
	)

	for {
		n := c.pipe.DrainResponses(c.batch)
		if n == 0 {
			break
		}

		total += n

		for _, resp := range c.batch[:n] {
			req, ok := c.pending[resp.RequestID]
			if !ok {
				c.unmatched++
				c.log.WithFields(logrus.Fields{
					"request_id": resp.RequestID,
					"type":       resp.Type.String(),
					"status":     resp.Status.String(),
				}).Warn("Response without pending request")

				continue
			}

			delete(c.pending, resp.RequestID)

			if !resp.Success {
				c.failed++
				c.log.WithFields(logrus.Fields{
					"request_id": resp.RequestID,
					"type":       resp.Type.String(),
					"rack":       resp.Rack,
					"chain":      resp.Chain,
					"effect":     resp.Effect,
					"status":     resp.Status.String(),
				}).Warn("Effects request rejected")
			}

			done = append(done, matched{req: req, resp: resp})
		}
	}

	c.mu.Unlock()

	if handler != nil {
		for _, m := range done {
			handler(m.req, m.resp)
		}
	}

	return total
}

// Flush polls until no request is pending or ctx is done.
func (c *Client) Flush(ctx context.Context) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		c.Poll()

		if c.Pending() == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("flush with %d pending: %w", c.Pending(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Pending returns the number of requests still awaiting a response.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.pending)
}

// Unmatched returns the number of responses whose request id was unknown.
func (c *Client) Unmatched() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.unmatched
}

// Failed returns the number of responses reporting a failure.
func (c *Client) Failed() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.failed
}
