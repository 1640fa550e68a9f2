package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	manifestName      = "labeled_ids.txt"
	dataDirName       = "data"
	trajectoryDirName = "Trajectory"
	labelsFileName    = "labels.txt"
)

// UserDir describes one user directory in the dataset.
type UserDir struct {
	ID        string
	HasLabels bool
	// Labels is nil for unlabeled users and for labeled users whose label
	// file could not be read; LabelsErr holds the reason in the latter
	// case so the caller can log it and carry on unlabeled.
	Labels          LabelIndex
	LabelsErr       error
	TrajectoryFiles []string
}

// Walker is a single-pass iterator over the user directories of a dataset
// root. Usage follows bufio.Scanner:
//
//	w, err := dataset.NewWalker(root)
//	for w.Next() {
//		u := w.User()
//		...
//	}
//	if err := w.Err(); err != nil { ... }
type Walker struct {
	dataDir string
	labeled map[string]bool
	ids     []string
	idx     int
	cur     *UserDir
	err     error
}

// NewWalker validates the dataset layout, reads the manifest of labeled
// user IDs and lists the user directories. Only numeric directory names
// count as users; anything else (hidden files, stray dirs) is ignored.
func NewWalker(root string) (*Walker, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, &MissingDirectoryError{Path: root}
	}

	dataDir := filepath.Join(root, dataDirName)
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, &MissingDirectoryError{Path: dataDir}
	}

	labeled, err := readManifest(filepath.Join(root, manifestName))
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() && isNumeric(e.Name()) {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)

	return &Walker{dataDir: dataDir, labeled: labeled, ids: ids}, nil
}

// Next advances to the next user directory. It returns false when the walk
// is exhausted or failed; check Err afterwards.
func (w *Walker) Next() bool {
	if w.err != nil || w.idx >= len(w.ids) {
		return false
	}
	id := w.ids[w.idx]
	w.idx++

	// The manifest is authoritative for has_labels; a stray labels.txt in
	// an unlisted user's directory does not count.
	u := &UserDir{ID: id, HasLabels: w.labeled[id]}
	if u.HasLabels {
		intervals, err := ParseLabels(filepath.Join(w.dataDir, id, labelsFileName))
		if err != nil {
			u.LabelsErr = err
		} else {
			u.Labels = NewLabelIndex(intervals)
		}
	}

	trajDir := filepath.Join(w.dataDir, id, trajectoryDirName)
	entries, err := os.ReadDir(trajDir)
	if err != nil {
		w.err = &MissingDirectoryError{Path: trajDir}
		return false
	}
	for _, e := range entries {
		if !e.IsDir() {
			u.TrajectoryFiles = append(u.TrajectoryFiles, filepath.Join(trajDir, e.Name()))
		}
	}

	w.cur = u
	return true
}

// User returns the descriptor produced by the last successful Next.
func (w *Walker) User() *UserDir {
	return w.cur
}

// Err returns the error that stopped the walk, if any.
func (w *Walker) Err() error {
	return w.err
}

func readManifest(path string) (map[string]bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	labeled := make(map[string]bool)
	for _, line := range strings.Split(string(raw), "\n") {
		if id := strings.TrimSpace(line); id != "" {
			labeled[id] = true
		}
	}
	return labeled, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
