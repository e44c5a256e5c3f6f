package protocol

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// Motor parameters are numbered 1 through ParameterCount on each axis.
const ParameterCount = 49

// Acquisition dump limits.
const (
	MaxPollAttempts     = 500
	DefaultPollInterval = 100 * time.Millisecond
	DumpLines           = 128
	DumpWords           = 16
)

// PollParameters reads every motor parameter of the X and Y axes with
// XPnnR and YPnnR. Responses are annotated and keyed "X1".."X49" and
// "Y1".."Y49". The first failed exchange aborts the poll.
func (c *Client) PollParameters() (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	params := make(map[string]string, 2*ParameterCount)
	for i := 1; i <= ParameterCount; i++ {
		for _, axis := range []string{"X", "Y"} {
			resp, _, err := c.sendMotor(fmt.Sprintf("%sP%02dR", axis, i))
			if err != nil {
				return nil, err
			}
			params[fmt.Sprintf("%s%d", axis, i)] = resp
		}
	}
	return params, nil
}

// Dump polls the acquisition card with "A" until it answers "F", then sends
// "D" and reads DumpLines lines of DumpWords comma-separated words. It gives
// up after MaxPollAttempts polls, on an "ERR" line, or on a malformed line.
func (c *Client) Dump() ([][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ready := false
	for attempt := 1; attempt <= MaxPollAttempts; attempt++ {
		if err := c.sendAcq("A"); err != nil {
			return nil, err
		}
		status, err := c.readAcq()
		if err != nil {
			return nil, err
		}
		if string(status) == "F" {
			ready = true
			break
		}
		c.logger.Debug("acquisition not finished", "attempt", attempt, "status", status)
		if c.pollInterval > 0 {
			time.Sleep(c.pollInterval)
		}
	}
	if !ready {
		return nil, fmt.Errorf("protocol: dump: no %q after %d polls: %w", "F", MaxPollAttempts, ErrUnexpectedReply)
	}

	if err := c.sendAcq("D"); err != nil {
		return nil, err
	}
	rows := make([][]string, 0, DumpLines)
	for n := 1; n <= DumpLines; n++ {
		line, err := c.readAcq()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(string(line), "ERR") {
			return nil, fmt.Errorf("protocol: dump: device reported %q: %w", line, ErrUnexpectedReply)
		}
		words := strings.Split(string(line), ",")
		if len(words) != DumpWords {
			return nil, fmt.Errorf("protocol: dump: line %d has %d words, want %d: %w", n, len(words), DumpWords, ErrUnexpectedReply)
		}
		for i := range words {
			words[i] = strings.TrimSpace(words[i])
		}
		rows = append(rows, words)
	}

	c.logger.Info("acquisition dump completed", "lines", len(rows))
	return rows, nil
}

// WriteDumpCSV writes rows as CSV with one word per record.
func WriteDumpCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	for _, row := range rows {
		for _, word := range row {
			if err := cw.Write([]string{word}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
