// Package serial provides a minimal serial-port session: open a named device at
// a baud rate, write raw byte payloads to it and read back responses framed by
// a line terminator.
//
// A Session moves through three states. It starts Unopened, becomes Open after
// a successful Open and ends Closed after Close. WriteBytes and ReadLine only
// work while the session is Open; otherwise they fail with ErrNotOpen and
// perform no I/O.
//
// ReadLine consumes bytes until it sees one of '\n', '\r' or 0x03 (ETX). The
// terminator is dropped and exactly one terminator is consumed per call, so
// "OK\r\n" reads as "OK" followed by an empty line.
//
// A Session does no internal locking and must not be used by more than one
// goroutine at a time. The configured timeout is accepted but not applied:
// ReadLine blocks until a terminator arrives or the transport fails.
//
// Example usage:
//
//	s := serial.New("/dev/ttyUSB0", 9600, 1)
//	if err := s.Open(); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	if err := s.WriteBytes([]byte("PING\r")); err != nil {
//	    log.Fatal(err)
//	}
//	line, err := s.ReadLine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Received: %q\n", line)
//
// Device access goes through a Driver. On Linux the default is TermiosDriver,
// which talks to the tty with raw termios ioctls; BugstDriver uses
// go.bug.st/serial and works on every platform that library supports.
package serial
