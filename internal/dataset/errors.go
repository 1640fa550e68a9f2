package dataset

import "fmt"

// MissingDirectoryError reports an absent dataset path. Fatal: the walk
// stops before any rows are written.
type MissingDirectoryError struct {
	Path string
}

func (e *MissingDirectoryError) Error() string {
	return fmt.Sprintf("dataset directory missing: %s", e.Path)
}

// MalformedRecordError reports an unparseable line in a trajectory or
// label file. Recovered at file granularity: the caller skips the file and
// continues with the next one.
type MalformedRecordError struct {
	File   string
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
}
