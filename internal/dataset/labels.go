package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// Label file timestamp layout, e.g. "2008/04/02 11:24:21".
const labelTimeLayout = "2006/01/02 15:04:05"

// LabelInterval is one line of a labels.txt file.
type LabelInterval struct {
	Start time.Time
	End   time.Time
	Mode  string
}

// LabelIndex resolves an activity's transportation mode by exact match on
// its start/end bounds. Near-miss intervals stay unmatched on purpose; see
// DESIGN.md.
type LabelIndex map[string]string

// Match returns the mode of the interval whose bounds exactly equal
// start/end, or "" if there is none. Safe on a nil index.
func (ix LabelIndex) Match(start, end time.Time) string {
	return ix[labelKey(start, end)]
}

// NewLabelIndex builds an index from parsed intervals. When two intervals
// share the same bounds the first one wins.
func NewLabelIndex(intervals []LabelInterval) LabelIndex {
	ix := make(LabelIndex, len(intervals))
	for _, iv := range intervals {
		key := labelKey(iv.Start, iv.End)
		if _, ok := ix[key]; !ok {
			ix[key] = iv.Mode
		}
	}
	return ix
}

func labelKey(start, end time.Time) string {
	return start.UTC().Format(time.DateTime) + "|" + end.UTC().Format(time.DateTime)
}

// ParseLabels reads a per-user labels.txt: a header line, then one
// tab-separated "start\tend\tmode" interval per line.
func ParseLabels(path string) ([]LabelInterval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var intervals []LabelInterval
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			// header
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, &MalformedRecordError{File: path, Line: lineNo, Reason: fmt.Sprintf("expected 3 tab-separated fields, got %d", len(fields))}
		}

		start, err := time.ParseInLocation(labelTimeLayout, strings.TrimSpace(fields[0]), time.UTC)
		if err != nil {
			return nil, &MalformedRecordError{File: path, Line: lineNo, Reason: fmt.Sprintf("bad start datetime: %v", err)}
		}
		end, err := time.ParseInLocation(labelTimeLayout, strings.TrimSpace(fields[1]), time.UTC)
		if err != nil {
			return nil, &MalformedRecordError{File: path, Line: lineNo, Reason: fmt.Sprintf("bad end datetime: %v", err)}
		}

		intervals = append(intervals, LabelInterval{
			Start: start,
			End:   end,
			Mode:  strings.TrimSpace(fields[2]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return intervals, nil
}
