package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_PollParameters(t *testing.T) {
	conn := &echoConn{respond: func(p []byte) [][]byte {
		return [][]byte{append([]byte("\x02\x06"), payload(p)[:4]...)}
	}}
	c := NewClient(conn, nil)

	params, err := c.PollParameters()
	require.NoError(t, err)
	require.Len(t, params, 2*ParameterCount)
	require.Equal(t, "<STX><ACK>XP01", params["X1"])
	require.Equal(t, "<STX><ACK>YP49", params["Y49"])

	require.Len(t, conn.written, 2*ParameterCount)
	require.Equal(t, MotorFrame(DefaultAddress, "XP01R"), conn.written[0])
	require.Equal(t, MotorFrame(DefaultAddress, "YP01R"), conn.written[1])
	require.Equal(t, MotorFrame(DefaultAddress, "YP49R"), conn.written[97])
}

func TestClient_PollParametersError(t *testing.T) {
	writeErr := errors.New("write failed")
	_, err := NewClient(&echoConn{writeErr: writeErr}, nil).PollParameters()
	require.ErrorIs(t, err, writeErr)
}

func dumpLine(n int) []byte {
	words := make([]string, DumpWords)
	for i := range words {
		words[i] = fmt.Sprintf(" %d", n*DumpWords+i)
	}
	return []byte(strings.Join(words, ","))
}

// acqCardConn plays an acquisition card that reports busy for the first
// busy polls and then dumps lines.
func acqCardConn(busy int, lines func() [][]byte) *echoConn {
	polls := 0
	return &echoConn{respond: func(p []byte) [][]byte {
		switch string(p) {
		case "A\r":
			polls++
			if polls <= busy {
				return [][]byte{[]byte("B"), {}}
			}
			return [][]byte{[]byte("F"), {}}
		case "D\r":
			return lines()
		}
		return [][]byte{[]byte("ERR unknown")}
	}}
}

func fullDump() [][]byte {
	var out [][]byte
	for n := 0; n < DumpLines; n++ {
		out = append(out, dumpLine(n), []byte{})
	}
	return out
}

func TestClient_Dump(t *testing.T) {
	conn := acqCardConn(3, fullDump)
	c := NewClient(conn, nil)
	c.SetPollInterval(0)

	rows, err := c.Dump()
	require.NoError(t, err)
	require.Len(t, rows, DumpLines)
	require.Equal(t, "0", rows[0][0])
	require.Equal(t, "2047", rows[DumpLines-1][DumpWords-1])

	require.Len(t, conn.written, 5)
	require.Equal(t, []byte("D\r"), conn.written[4])

	var buf bytes.Buffer
	require.NoError(t, WriteDumpCSV(&buf, rows))
	require.Equal(t, DumpLines*DumpWords, strings.Count(buf.String(), "\n"))
	require.True(t, strings.HasPrefix(buf.String(), "0\n1\n"))
}

func TestClient_DumpGivesUp(t *testing.T) {
	conn := acqCardConn(MaxPollAttempts, fullDump)
	c := NewClient(conn, nil)
	c.SetPollInterval(0)

	_, err := c.Dump()
	require.ErrorIs(t, err, ErrUnexpectedReply)
	require.Len(t, conn.written, MaxPollAttempts)
}

func TestClient_DumpDeviceError(t *testing.T) {
	conn := acqCardConn(0, func() [][]byte {
		return [][]byte{dumpLine(0), []byte("ERR 3")}
	})
	c := NewClient(conn, nil)
	c.SetPollInterval(0)

	_, err := c.Dump()
	require.ErrorIs(t, err, ErrUnexpectedReply)
	require.Contains(t, err.Error(), "ERR 3")
}

func TestClient_DumpMalformedLine(t *testing.T) {
	conn := acqCardConn(0, func() [][]byte {
		return [][]byte{[]byte("1,2,3")}
	})
	c := NewClient(conn, nil)
	c.SetPollInterval(0)

	_, err := c.Dump()
	require.ErrorIs(t, err, ErrUnexpectedReply)
	require.Contains(t, err.Error(), "line 1 has 3 words")
}
