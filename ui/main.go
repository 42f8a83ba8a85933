// Package ui shows a running simulation in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"go.uber.org/zap"
	"nyiyui.ca/hato/kotsu/road"
	"nyiyui.ca/hato/kotsu/sim"
)

// BarWidth is the number of cells used to draw one segment.
const BarWidth = 40

// RenderBar draws the vehicles of ss along a bar. A cell shows the last digit of the
// frontmost vehicle in it, or '*' when several vehicles share the cell.
func RenderBar(ss road.SegmentState) string {
	cells := []byte(strings.Repeat(".", BarWidth))
	for _, vs := range ss.Vehicles {
		i := min(vs.Position*BarWidth/ss.Length, BarWidth-1)
		if cells[i] == '.' {
			cells[i] = byte('0' + int(vs.ID)%10)
		} else {
			cells[i] = '*'
		}
	}
	return string(cells)
}

// RenderSegments lists every segment with its bar, one per line.
func RenderSegments(snap road.Snapshot) string {
	b := new(strings.Builder)
	for _, ss := range snap.Segments {
		fmt.Fprintf(b, "s%-3d %3d→%-3d [%s] %d\n", ss.ID, ss.Start, ss.End, RenderBar(ss), len(ss.Vehicles))
	}
	return b.String()
}

// RenderJunctions lists every junction with the segment holding right of way.
func RenderJunctions(snap road.Snapshot) string {
	b := new(strings.Builder)
	for _, js := range snap.Junctions {
		switch js.Kind {
		case road.KindRoundabout:
			fmt.Fprintf(b, "j%-3d roundabout\n", js.ID)
		case road.KindSignaled:
			fmt.Fprintf(b, "j%-3d green s%d for %d\n", js.ID, js.Green, js.Countdown)
		default:
			panic(fmt.Sprintf("unknown junction kind %d", js.Kind))
		}
	}
	return b.String()
}

func header(comment string, rs sim.RunSnapshot, paused bool) string {
	state := "running"
	if paused {
		state = "paused"
	}
	return fmt.Sprintf("%s run %s tick %d, %d vehicles (%s; q quit, space pause, n step)", comment, rs.Run, rs.Tick, rs.VehicleCount(), state)
}

// closeOnPanic calls closeFn before letting a panic continue, so that the terminal is usable
// again when the panic is printed. Use it deferred.
func closeOnPanic(closeFn func()) {
	if r := recover(); r != nil {
		closeFn()
		panic(r)
	}
}

// Main runs s one tick per interval and redraws after every tick until the user quits.
func Main(s *sim.Simulation, interval time.Duration) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	rs := sim.RunSnapshot{Run: s.RunID(), Snapshot: snap}
	err = termui.Init()
	if err != nil {
		return fmt.Errorf("termui init: %w", err)
	}
	defer termui.Close()

	head := widgets.NewParagraph()
	head.Title = "kotsu"
	segments := widgets.NewParagraph()
	segments.Title = "segments"
	junctions := widgets.NewParagraph()
	junctions.Title = "junctions"
	layoutWidgets := func() {
		w, h := termui.TerminalDimensions()
		head.SetRect(0, 0, w, 3)
		segments.SetRect(0, 3, w*3/4, h)
		junctions.SetRect(w*3/4, 3, w, h)
	}
	layoutWidgets()
	paused := false
	draw := func() {
		head.Text = header(s.Comment, rs, paused)
		segments.Text = RenderSegments(rs.Snapshot)
		junctions.Text = RenderJunctions(rs.Snapshot)
		termui.Render(head, segments, junctions)
	}
	draw()

	snaps := make(chan sim.RunSnapshot, 1)
	s.Snapshots.Subscribe("ui", snaps)
	defer s.Snapshots.Unsubscribe(snaps)
	step := func() {
		defer closeOnPanic(termui.Close)
		if err := s.Simulate(1); err != nil {
			zap.S().Errorf("ui: simulate: %s", err)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	events := termui.PollEvents()
	for {
		select {
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "<Space>":
				paused = !paused
				draw()
			case "n":
				if paused {
					go step()
				}
			case "<Resize>":
				layoutWidgets()
				termui.Clear()
				draw()
			}
		case <-ticker.C:
			if !paused {
				go step()
			}
		case rs = <-snaps:
			draw()
		}
	}
}
