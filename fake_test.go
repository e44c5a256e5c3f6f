package serial

import (
	"bytes"
	"io"
	"sync/atomic"
)

// fakePort serves reads from r and then fails with readErr once r is drained.
type fakePort struct {
	r       io.Reader
	readErr error
	reads   int

	written  bytes.Buffer
	writeErr error
	maxWrite int
	stalled  bool // Write accepts nothing and reports no error

	baud     int
	baudErr  error
	closed   atomic.Int32 // Close may run on the cleanup goroutine
	closeErr error
}

func newFakePort(input string) *fakePort {
	return &fakePort{r: bytes.NewReader([]byte(input))}
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.reads++
	n, err := p.r.Read(b)
	if err == io.EOF && p.readErr != nil {
		return n, p.readErr
	}
	return n, err
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	if p.stalled {
		return 0, nil
	}
	if p.maxWrite > 0 && len(b) > p.maxWrite {
		b = b[:p.maxWrite]
	}
	return p.written.Write(b)
}

func (p *fakePort) SetBaudRate(baud int) error {
	if p.baudErr != nil {
		return p.baudErr
	}
	p.baud = baud
	return nil
}

func (p *fakePort) Close() error {
	p.closed.Add(1)
	return p.closeErr
}

type fakeDriver struct {
	port     *fakePort
	err      error
	acquired []string
}

func (d *fakeDriver) Acquire(device string) (Port, error) {
	d.acquired = append(d.acquired, device)
	if d.err != nil {
		return nil, d.err
	}
	return d.port, nil
}

func newFakeSession(input string) (*Session, *fakeDriver) {
	d := &fakeDriver{port: newFakePort(input)}
	return New("/dev/ttyFAKE0", 9600, 1, WithDriver(d)), d
}
