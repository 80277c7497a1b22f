package report

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event is the socket.io event emitted for every job result.
const Event = "compile_result"

// ConnectTimeout bounds how long Dial waits for the server.
var ConnectTimeout = 15 * time.Second

// SocketIOConfig describes the server to report to.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// SocketIO emits job results to a socket.io server over one connection.
type SocketIO struct {
	logger     *slog.Logger
	emit       func(event string, payload any)
	disconnect func()
}

// DialSocketIO connects to the server and waits for the connect event.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("reporter", "socketio", "url", cfg.URL)
	logger.Info("Connecting to report server.")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("report URL %q needs a scheme and host", cfg.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to report server.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", ConnectTimeout)
	}

	return newSocketIO(logger,
		func(event string, payload any) { io.Emit(event, payload) },
		func() { io.Disconnect() },
	), nil
}

func newSocketIO(logger *slog.Logger, emit func(string, any), disconnect func()) *SocketIO {
	return &SocketIO{logger: logger, emit: emit, disconnect: disconnect}
}

// Report implements Reporter.
func (s *SocketIO) Report(_ context.Context, res JobResult) error {
	s.logger.Debug("Emitting job result.", "event", Event, "job", res.Job, "status", res.Status)
	s.emit(Event, res.Payload())
	return nil
}

// Close implements Reporter.
func (s *SocketIO) Close() error {
	s.logger.Info("Disconnecting from report server.")
	s.disconnect()
	return nil
}
