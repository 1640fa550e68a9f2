package dataset

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Trajectory files start with this many ignorable header lines.
const headerLines = 6

// Epoch of the files' fractional-day timestamps (the 1899-12-30 serial
// date origin).
var dateDaysEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Point is one parsed trajectory line.
type Point struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
	DateDays  float64
	Datetime  time.Time
}

// Trajectory is a fully parsed trajectory file: its points in file order
// and the activity bounds derived from them.
type Trajectory struct {
	Points []Point
	Start  time.Time
	End    time.Time
}

// DateDaysToTime converts a fractional-day count since the 1899-12-30
// epoch to a UTC timestamp, rounded to whole seconds — the resolution of
// the files' own date/time string columns.
func DateDaysToTime(days float64) time.Time {
	return dateDaysEpoch.Add(time.Duration(math.Round(days*86400)) * time.Second)
}

// ActivityID derives the deterministic activity identifier for a
// trajectory file: "<user id>-<file base name without extension>".
func ActivityID(userID, path string) string {
	base := filepath.Base(path)
	return userID + "-" + strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseTrajectory parses one trajectory file. Lines after the header hold
// seven comma-separated fields: latitude, longitude, an unused flag,
// altitude, fractional day count, date string, time string. Datetime comes
// from the fractional day count, not from the trailing strings, so the two
// time representations stay consistent by construction.
//
// Parsing is strict: any malformed line fails the whole file with a
// MalformedRecordError carrying the file and line number.
func ParseTrajectory(path string) (*Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	traj := &Trajectory{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= headerLines {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		p, err := parseLine(line)
		if err != nil {
			return nil, &MalformedRecordError{File: path, Line: lineNo, Reason: err.Error()}
		}

		if len(traj.Points) == 0 || p.Datetime.Before(traj.Start) {
			traj.Start = p.Datetime
		}
		if len(traj.Points) == 0 || p.Datetime.After(traj.End) {
			traj.End = p.Datetime
		}
		traj.Points = append(traj.Points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(traj.Points) == 0 {
		return nil, &MalformedRecordError{File: path, Line: lineNo, Reason: "no trackpoint lines"}
	}

	return traj, nil
}

func parseLine(line string) (Point, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 7 {
		return Point{}, fmt.Errorf("expected 7 fields, got %d", len(fields))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad latitude %q", fields[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad longitude %q", fields[1])
	}
	// fields[2] is unused in the source format
	alt, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad altitude %q", fields[3])
	}
	days, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad date_days %q", fields[4])
	}

	return Point{
		Latitude:  lat,
		Longitude: lon,
		Altitude:  alt,
		DateDays:  days,
		Datetime:  DateDaysToTime(days),
	}, nil
}
