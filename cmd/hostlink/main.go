//go:build !tinygo

// hostlink is a bench console for the framed host link. Each input line is
// split shell-style into a topic and payload words and sent as one frame;
// frames from the device are printed as they arrive.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/shlex"

	"costume-go/link"
	"costume-go/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate")
	verbose = flag.Bool("verbose", false, "Print raw frames")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port, err := serial.OpenHost(ctx, serial.HostConfig{Device: *device, Baud: *baud})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	go receive(ctx, port)

	fmt.Println("Enter <topic> [payload...] (type 'help' for examples, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		switch args[0] {
		case "quit", "exit", "q":
			return
		case "help", "?":
			printHelp()
			continue
		}

		frame, err := link.Encode(link.Envelope{
			Direction: link.ToDevice,
			Topic:     args[0],
			Payload:   strings.Join(args[1:], " "),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if *verbose {
			fmt.Printf("tx %q\n", frame)
		}
		if _, err := port.Write(frame); err != nil {
			fmt.Fprintf(os.Stderr, "Error: write: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

// receive prints device frames until ctx is done.
func receive(ctx context.Context, port serial.Port) {
	lines := link.NewLines(link.DefaultMaxLine)
	var buf [256]byte
	for ctx.Err() == nil {
		n := port.TryRead(buf[:])
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		lines.Feed(buf[:n], func(line []byte) {
			if *verbose {
				fmt.Printf("rx %q\n", line)
			}
			e, err := link.Decode(line)
			switch {
			case err != nil:
				fmt.Printf("\n! %v: %q\n", err, line)
			case e.Direction != link.ToHost:
				fmt.Printf("\n! echo of host frame: %s\n", e.Topic)
			default:
				fmt.Printf("\n< %s %s\n", e.Topic, e.Payload)
			}
		})
	}
}

func printHelp() {
	fmt.Println("\nExamples:")
	fmt.Println("  ping hello                    - Expect pong hello")
	fmt.Println("  menu/set/brightness 200       - Set a menu parameter")
	fmt.Println("  menu/sync                     - Ask the menu device for every value")
	fmt.Println("  fan/set 60                    - Manual fan duty")
	fmt.Println("  fan/auto 1                    - Back to the fan curve")
	fmt.Println(`  notify '{"title":"Hi","message":"Break in 5"}'`)
	fmt.Println("  quit/exit/q                   - Exit the program")
	fmt.Println()
}
