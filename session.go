package serial

import (
	"bufio"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateUnopened State = iota // constructed, no device acquired yet
	StateOpen                  // device acquired and configured
	StateClosed                // device released; the session cannot be reopened
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Line terminators recognized by ReadLine.
const (
	LF  = '\n'
	CR  = '\r'
	ETX = 0x03
)

// Session owns one device handle for its open lifetime.
type Session struct {
	id       uuid.UUID
	device   string
	baudRate int
	timeout  time.Duration

	driver Driver
	logger *slog.Logger

	state   State
	port    *handle
	reader  *bufio.Reader
	cleanup runtime.Cleanup
}

// New returns an unopened session for device. No I/O is performed.
//
// timeoutSeconds is recorded and reported by Timeout but no operation applies
// it.
func New(device string, baudRate int, timeoutSeconds float64, opts ...Option) *Session {
	s := &Session{
		id:       uuid.New(),
		device:   device,
		baudRate: baudRate,
		timeout:  time.Duration(timeoutSeconds * float64(time.Second)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.driver == nil {
		s.driver = defaultDriver()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.logger = s.logger.With("session", s.id.String(), "device", device)
	return s
}

// ID returns the identifier attached to the session's log records.
func (s *Session) ID() uuid.UUID { return s.id }

// Device returns the device name the session was constructed with.
func (s *Session) Device() string { return s.device }

// BaudRate returns the configured line speed.
func (s *Session) BaudRate() int { return s.baudRate }

// Timeout returns the configured timeout. No operation enforces it.
func (s *Session) Timeout() time.Duration { return s.timeout }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Open acquires the device and configures its baud rate. It is only valid on
// an unopened session. If configuration fails the handle is released before
// returning and the session stays unopened.
func (s *Session) Open() error {
	if s.state != StateUnopened {
		return s.fail("open", ErrInvalidState, nil)
	}

	s.logger.Debug("opening serial port", "baud", s.baudRate)

	port, err := s.driver.Acquire(s.device)
	if err != nil {
		return s.fail("open", ErrDeviceUnavailable, err)
	}

	if err := port.SetBaudRate(s.baudRate); err != nil {
		if cerr := port.Close(); cerr != nil {
			s.logger.Warn("release after failed configuration", "error", cerr)
		}
		return s.fail("open", ErrConfigurationFailed, err)
	}

	h := &handle{Port: port}
	s.port = h
	s.reader = bufio.NewReader(h)
	s.cleanup = runtime.AddCleanup(s, func(h *handle) { h.Close() }, h)
	s.state = StateOpen

	s.logger.Info("opened serial port", "baud", s.baudRate)
	return nil
}

// Close releases the device handle of an open session and marks it closed.
// On an unopened or closed session it does nothing. Release errors are logged
// and otherwise ignored.
func (s *Session) Close() {
	if s.state != StateOpen {
		return
	}

	s.cleanup.Stop()
	if err := s.port.Close(); err != nil {
		s.logger.Warn("release serial port", "error", err)
	}
	s.port = nil
	s.reader = nil
	s.state = StateClosed

	s.logger.Info("closed serial port")
}

// WriteBytes writes all of p to the device, blocking until every byte is
// accepted or the transport fails.
func (s *Session) WriteBytes(p []byte) error {
	if s.state != StateOpen {
		return s.fail("write", ErrNotOpen, nil)
	}

	for written := 0; written < len(p); {
		n, err := s.port.Write(p[written:])
		written += n
		if err == nil && n == 0 {
			err = io.ErrShortWrite
		}
		if err != nil {
			return s.fail("write", ErrIO, err)
		}
	}

	s.logger.Debug("wrote bytes", "n", len(p), "data", p)
	return nil
}

// ReadLine blocks until a terminator ('\n', '\r' or ETX) arrives and returns
// the bytes before it. The terminator is consumed and discarded. On a
// transport error the bytes read so far are dropped.
func (s *Session) ReadLine() ([]byte, error) {
	if s.state != StateOpen {
		return nil, s.fail("read", ErrNotOpen, nil)
	}

	line := make([]byte, 0, 64)
	for {
		c, err := s.reader.ReadByte()
		if err != nil {
			return nil, s.fail("read", ErrIO, err)
		}
		if c == LF || c == CR || c == ETX {
			break
		}
		line = append(line, c)
	}

	s.logger.Debug("read line", "n", len(line), "data", line)
	return line, nil
}

func (s *Session) fail(op string, kind, err error) error {
	e := &Error{Op: op, Device: s.device, Kind: kind, Err: err}
	if kind != ErrNotOpen {
		s.logger.Error("serial operation failed", "op", op, "state", s.state.String(), "error", e)
	}
	return e
}
