package protocol

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Conn is the part of a serial session a Client needs. *serial.Session
// implements it.
type Conn interface {
	WriteBytes(p []byte) error
	ReadLine() ([]byte, error)
}

// Client serializes access to a Conn so a write and the read of its response
// happen without interleaving from other goroutines. It never retries.
type Client struct {
	mu           sync.Mutex
	conn         Conn
	address      byte
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewClient returns a client using DefaultAddress for motor commands.
// A nil logger discards output.
func NewClient(conn Conn, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		conn:         conn,
		address:      DefaultAddress,
		pollInterval: DefaultPollInterval,
		logger:       logger,
	}
}

// SetAddress changes the motor controller address.
func (c *Client) SetAddress(addr byte) {
	c.mu.Lock()
	c.address = addr
	c.mu.Unlock()
}

// SetPollInterval changes the pause between acquisition status polls in Dump.
func (c *Client) SetPollInterval(d time.Duration) {
	c.mu.Lock()
	c.pollInterval = d
	c.mu.Unlock()
}

// Exchange writes frame and returns the next line read.
func (c *Client) Exchange(frame []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exchange(frame)
}

func (c *Client) exchange(frame []byte) ([]byte, error) {
	if err := c.conn.WriteBytes(frame); err != nil {
		return nil, err
	}
	return c.conn.ReadLine()
}

// SendMotor sends cmd to the motor controller and returns the response with
// its control bytes annotated.
func (c *Client) SendMotor(cmd string) (string, Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendMotor(cmd)
}

func (c *Client) sendMotor(cmd string) (string, Reply, error) {
	resp, err := c.exchange(MotorFrame(c.address, cmd))
	if err != nil {
		return "", ReplyUnknown, fmt.Errorf("protocol: motor command %q: %w", cmd, err)
	}
	reply := Classify(resp)
	c.logger.Debug("motor command", "command", cmd, "response", Annotate(resp), "reply", reply.String())
	return Annotate(resp), reply, nil
}

// SendAcq sends cmd to the acquisition card without waiting for a response.
func (c *Client) SendAcq(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendAcq(cmd)
}

func (c *Client) sendAcq(cmd string) error {
	if err := c.conn.WriteBytes(AcqFrame(cmd)); err != nil {
		return fmt.Errorf("protocol: acquisition command %q: %w", cmd, err)
	}
	c.logger.Debug("acquisition command", "command", cmd)
	return nil
}

// ReadAcq reads the next non-blank line of acquisition data. The card ends
// lines with CR LF, which reads as a line followed by an empty one.
func (c *Client) ReadAcq() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readAcq()
}

func (c *Client) readAcq() ([]byte, error) {
	for {
		line, err := c.conn.ReadLine()
		if err != nil {
			return nil, fmt.Errorf("protocol: acquisition read: %w", err)
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			c.logger.Debug("acquisition data", "data", line)
			return line, nil
		}
	}
}
