// Command serialctl opens a serial session and drives it from stdin.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	serial "github.com/luhtfiimanal/go-serial-session"
	"github.com/luhtfiimanal/go-serial-session/protocol"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", 9600, "Baud rate")
	timeout = flag.Float64("timeout", 1, "Timeout in seconds (recorded, not enforced)")
	driver  = flag.String("driver", "", "Device driver: "+strings.Join(serial.Drivers(), ", ")+" (default: platform)")
	address = flag.String("address", "0x30", "Motor controller address")
	verbose = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	addr, err := strconv.ParseUint(*address, 0, 8)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid address %q: %v\n", *address, err)
		os.Exit(2)
	}

	cfg := serial.Config{
		Device:   *device,
		BaudRate: *baud,
		Timeout:  *timeout,
		Driver:   *driver,
	}
	s, err := cfg.NewSession(serial.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := s.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	client := protocol.NewClient(s, logger)
	client.SetAddress(byte(addr))

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if args[0] == "quit" || args[0] == "exit" || args[0] == "q" {
			return
		}
		if err := run(s, client, args[0], args[1:]); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func run(s *serial.Session, client *protocol.Client, cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		printHelp()

	case "send":
		return s.WriteBytes([]byte(strings.Join(args, " ")))

	case "hex":
		payload, err := hex.DecodeString(strings.Join(args, ""))
		if err != nil {
			return err
		}
		return s.WriteBytes(payload)

	case "read":
		line, err := s.ReadLine()
		if err != nil {
			return err
		}
		fmt.Printf("%q\n", line)

	case "motor":
		resp, reply, err := client.SendMotor(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", resp, reply)

	case "acq":
		return client.SendAcq(strings.Join(args, " "))

	case "upload":
		if len(args) != 2 {
			return fmt.Errorf("usage: upload <name> <file>")
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		code, err := client.UploadProgram(args[0], f)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %s (controller code %c)\n", args[0], code)

	case "params":
		params, err := client.PollParameters()
		if err != nil {
			return err
		}
		for i := 1; i <= protocol.ParameterCount; i++ {
			fmt.Printf("%2d  X %-20s  Y %s\n", i, params[fmt.Sprintf("X%d", i)], params[fmt.Sprintf("Y%d", i)])
		}

	case "dump":
		rows, err := client.Dump()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return protocol.WriteDumpCSV(os.Stdout, rows)
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := protocol.WriteDumpCSV(f, rows); err != nil {
			f.Close()
			return err
		}
		return f.Close()

	case "state":
		fmt.Printf("%s %s at %d baud (session %s)\n", s.Device(), s.State(), s.BaudRate(), s.ID())

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  send <text>    write text as-is, no terminator added")
	fmt.Println("  hex <bytes>    write hex-encoded bytes, e.g. hex 02 30 41 03")
	fmt.Println("  read           read one line")
	fmt.Println("  motor <cmd>    send a framed motor command and print the reply")
	fmt.Println("  acq <cmd>      send a CR-terminated acquisition command")
	fmt.Println("  upload <n> <f> upload program file f under name n")
	fmt.Println("  params         read motor parameters 1..49 of both axes")
	fmt.Println("  dump [file]    wait for acquisition and dump its data as CSV")
	fmt.Println("  state          show session state")
	fmt.Println("  quit           close the port and exit")
}
