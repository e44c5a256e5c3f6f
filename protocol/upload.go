package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Program upload framing.
const (
	BlockSize      = 256
	MaxProgramName = 8
)

// Header reply codes.
const (
	UploadNew       = 'O' // program absent and enough RAM
	UploadOverwrite = 'E' // program exists and will be replaced
)

// ErrUnexpectedReply is wrapped by every workflow error caused by a
// controller answer the workflow does not accept.
var ErrUnexpectedReply = errors.New("unexpected reply")

const ackPrefix = "<STX><ACK>"

var lineNumber = regexp.MustCompile(`^\d+\s*`)

// StripLineNumbers removes a leading line number and the whitespace after it
// from every line of text. CR LF line endings become LF and a final line
// ending is dropped.
func StripLineNumbers(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = lineNumber.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}

// ProgramBlocks splits program into upload blocks. The first block starts with
// name and ETB. When the program fits in the first block it is sent
// unpadded; otherwise every block is padded with EOT to BlockSize.
func ProgramBlocks(name string, program []byte) [][]byte {
	head := make([]byte, 0, BlockSize)
	head = append(head, name...)
	head = append(head, ETB)

	first := BlockSize - len(head)
	if len(program) <= first {
		return [][]byte{append(head, program...)}
	}

	blocks := [][]byte{padBlock(append(head, program[:first]...))}
	for rest := program[first:]; len(rest) > 0; {
		n := min(len(rest), BlockSize)
		blocks = append(blocks, padBlock(append([]byte(nil), rest[:n]...)))
		rest = rest[n:]
	}
	return blocks
}

func padBlock(b []byte) []byte {
	if len(b) < BlockSize {
		b = append(b, bytes.Repeat([]byte{EOT}, BlockSize-len(b))...)
	}
	return b
}

// UploadProgram stores the program read from r on the motor controller under
// name (trimmed and cut to MaxProgramName characters). Line numbers are
// stripped before sending. It returns the header reply code, UploadNew or
// UploadOverwrite.
func (c *Client) UploadProgram(name string, r io.Reader) (byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("protocol: upload: read program: %w", err)
	}
	name = strings.TrimSpace(name)
	if len(name) > MaxProgramName {
		name = name[:MaxProgramName]
	}
	program := []byte(StripLineNumbers(string(raw)))

	c.mu.Lock()
	defer c.mu.Unlock()

	header := "QP" + name + " S" + strconv.Itoa(len(program))
	resp, _, err := c.sendMotor(header)
	if err != nil {
		return 0, fmt.Errorf("protocol: upload %s: %w", name, err)
	}
	code, ok := strings.CutPrefix(resp, ackPrefix)
	if !ok || len(code) != 1 || (code[0] != UploadNew && code[0] != UploadOverwrite) {
		return 0, fmt.Errorf("protocol: upload %s: header reply %q: %w", name, resp, ErrUnexpectedReply)
	}
	c.logger.Info("program upload accepted", "program", name, "bytes", len(program), "code", code)

	blocks := ProgramBlocks(name, program)
	for i, block := range blocks {
		resp, _, err := c.sendMotor(string(block))
		if err != nil {
			return 0, fmt.Errorf("protocol: upload %s: block %d: %w", name, i+1, err)
		}
		if resp != ackPrefix {
			return 0, fmt.Errorf("protocol: upload %s: block %d reply %q: %w", name, i+1, resp, ErrUnexpectedReply)
		}
		c.logger.Debug("program block sent", "program", name, "block", i+1, "of", len(blocks))
	}

	c.logger.Info("program upload completed", "program", name, "blocks", len(blocks))
	return code[0], nil
}
