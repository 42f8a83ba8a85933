package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var ErrParse = errors.New("parse error")

var (
	junctionRe = regexp.MustCompile(`^(\d+):(\d+)t$`)
	segmentRe  = regexp.MustCompile(`^(\d+)-->(\d+):(\d+)m,(\d+)x,(\d+)max$`)
	vehicleRe  = regexp.MustCompile(`^(\d+),(\d+),(\d+),(\d+)$`)
)

// File names inside a layout directory.
const (
	JunctionsFile = "crossings.sim"
	SegmentsFile  = "streets.sim"
	VehiclesFile  = "cars.sim"
)

// parseLines matches every line against re and returns the integer groups.
func parseLines(kind string, lines []string, re *regexp.Regexp) ([][]int, error) {
	res := make([][]int, 0, len(lines))
	for i, line := range lines {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: %s line %d (%q) does not match %s", ErrParse, kind, i, line, re)
		}
		fields := make([]int, 0, len(m)-1)
		for _, s := range m[1:] {
			n, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: number %s is out of range", ErrParse, kind, i, s)
			}
			fields = append(fields, int(n))
		}
		res = append(res, fields)
	}
	return res, nil
}

// Parse turns the lines of the three record kinds into a Layout.
// Values are not range-checked here; that happens in Build.
func Parse(junctions, segments, vehicles []string) (*Layout, error) {
	y := &Layout{}
	js, err := parseLines("junction", junctions, junctionRe)
	if err != nil {
		return nil, err
	}
	for _, f := range js {
		y.Junctions = append(y.Junctions, JunctionRecord{ID: f[0], GreenPhase: f[1]})
	}
	ss, err := parseLines("segment", segments, segmentRe)
	if err != nil {
		return nil, err
	}
	for _, f := range ss {
		y.Segments = append(y.Segments, SegmentRecord{Start: f[0], End: f[1], Length: f[2], Lanes: f[3], SpeedLimit: f[4]})
	}
	vs, err := parseLines("vehicle", vehicles, vehicleRe)
	if err != nil {
		return nil, err
	}
	for _, f := range vs {
		y.Vehicles = append(y.Vehicles, VehicleRecord{ID: f[0], Segment: f[1], TargetSpeed: f[2], Acceleration: f[3]})
	}
	return y, nil
}

// splitLines splits data into lines, dropping trailing empty lines and carriage returns.
func splitLines(data string) []string {
	lines := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Load reads a layout directory containing JunctionsFile, SegmentsFile and VehiclesFile.
func Load(dir string) (*Layout, error) {
	y, err := LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	zap.S().Infof("loaded layout %s: %d junctions, %d segments, %d vehicles", dir, len(y.Junctions), len(y.Segments), len(y.Vehicles))
	return y, nil
}

// LoadFS is Load for a layout at the root of fsys.
func LoadFS(fsys fs.FS) (*Layout, error) {
	read := func(name string) ([]string, error) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %s", ErrParse, name, err)
		}
		return splitLines(string(data)), nil
	}
	junctions, err := read(JunctionsFile)
	if err != nil {
		return nil, err
	}
	segments, err := read(SegmentsFile)
	if err != nil {
		return nil, err
	}
	vehicles, err := read(VehiclesFile)
	if err != nil {
		return nil, err
	}
	return Parse(junctions, segments, vehicles)
}
