// Package shell reads commands line by line and runs them against a simulation.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"go.uber.org/zap"
	"nyiyui.ca/hato/kotsu/sim"
)

const (
	Ready = "READY"
	Quit  = "quit"
)

var ErrCommandNotFound = errors.New("command not found")

type command struct {
	name string
	re   *regexp.Regexp
	run  func(s *sim.Simulation, w io.Writer, m []string) error
}

var commands = []command{
	{"load", regexp.MustCompile(`^load (.+)$`), runLoad},
	{"position", regexp.MustCompile(`^position (\d+)$`), runPosition},
	{"simulate", regexp.MustCompile(`^simulate (\d+)$`), runSimulate},
	{"history", regexp.MustCompile(`^history (\d+)$`), runHistory},
}

// parseInt32 parses digits that must fit in an int32.
func parseInt32(what, s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be in integer range", what)
	}
	return int(n), nil
}

func runLoad(s *sim.Simulation, w io.Writer, m []string) error {
	if err := s.Load(m[1]); err != nil {
		return err
	}
	fmt.Fprintln(w, Ready)
	return nil
}

func runPosition(s *sim.Simulation, w io.Writer, m []string) error {
	id, err := parseInt32("id", m[1])
	if err != nil {
		return err
	}
	vs, err := s.Position(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Car %d on street %d with speed %d and position %d\n", vs.ID, vs.Segment, vs.Speed, vs.Position)
	return nil
}

func runSimulate(s *sim.Simulation, w io.Writer, m []string) error {
	ticks, err := parseInt32("number of ticks", m[1])
	if err != nil {
		return err
	}
	if err := s.Simulate(ticks); err != nil {
		return err
	}
	fmt.Fprintln(w, Ready)
	return nil
}

func runHistory(s *sim.Simulation, w io.Writer, m []string) error {
	id, err := parseInt32("id", m[1])
	if err != nil {
		return err
	}
	entries, err := s.History(id)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(w, "Tick %d: street %d with speed %d and position %d\n", e.Tick, e.State.Segment, e.State.Speed, e.State.Position)
	}
	return nil
}

// Exec runs a single line. It returns false once line is the quit command.
func Exec(s *sim.Simulation, w io.Writer, line string) bool {
	if line == Quit {
		return false
	}
	for _, c := range commands {
		m := c.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if err := c.run(s, w, m); err != nil {
			zap.S().Debugf("shell: %s: %s", c.name, err)
			fmt.Fprintf(w, "Error: %s\n", err)
		}
		return true
	}
	fmt.Fprintf(w, "Error: %s\n", ErrCommandNotFound)
	return true
}

// Run executes lines from r until the quit command or the end of input.
func Run(s *sim.Simulation, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if !Exec(s, w, scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}
