package dataset_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"geolife_tracker/internal/dataset"
)

// newDatasetDir lays out a dataset root:
//
//	root/labeled_ids.txt
//	root/data/<user>/Trajectory/*.plt
//	root/data/<user>/labels.txt (optional)
func newDatasetDir(t *testing.T, manifest []string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	content := ""
	for _, id := range manifest {
		content += id + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "labeled_ids.txt"), []byte(content), 0o644))
	return root
}

func addUser(t *testing.T, root, id string, withLabelFile bool, files int) {
	t.Helper()
	trajDir := filepath.Join(root, "data", id, "Trajectory")
	require.NoError(t, os.MkdirAll(trajDir, 0o755))

	base := time.Date(2008, 10, 24, 2, 53, 23, 0, time.UTC)
	for i := 0; i < files; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		writeTrajectory(t, trajDir, start.Format("20060102150405")+".plt", []string{
			pointLine(39.9, 116.3, 50, start),
			pointLine(39.91, 116.31, 51, start.Add(time.Minute)),
		})
	}

	if withLabelFile {
		labels := "Start Time\tEnd Time\tTransportation Mode\n" +
			base.Format("2006/01/02 15:04:05") + "\t" +
			base.Add(time.Minute).Format("2006/01/02 15:04:05") + "\twalk\n"
		require.NoError(t, os.WriteFile(
			filepath.Join(root, "data", id, "labels.txt"), []byte(labels), 0o644))
	}
}

func collect(t *testing.T, w *dataset.Walker) []*dataset.UserDir {
	t.Helper()
	var users []*dataset.UserDir
	for w.Next() {
		users = append(users, w.User())
	}
	require.NoError(t, w.Err())
	return users
}

func TestWalkerManifestIsAuthoritative(t *testing.T) {
	// 011 is in the manifest but has no label file; 020 has a label file
	// but is not in the manifest. The manifest wins both ways.
	root := newDatasetDir(t, []string{"010", "011"})
	addUser(t, root, "010", true, 2)
	addUser(t, root, "011", false, 1)
	addUser(t, root, "020", true, 1)

	w, err := dataset.NewWalker(root)
	require.NoError(t, err)
	users := collect(t, w)
	require.Len(t, users, 3)

	byID := map[string]*dataset.UserDir{}
	for _, u := range users {
		byID[u.ID] = u
	}

	require.True(t, byID["010"].HasLabels)
	require.NotNil(t, byID["010"].Labels)
	require.NoError(t, byID["010"].LabelsErr)

	require.True(t, byID["011"].HasLabels)
	require.Error(t, byID["011"].LabelsErr)
	require.Nil(t, byID["011"].Labels)

	require.False(t, byID["020"].HasLabels)
	require.Nil(t, byID["020"].Labels)
}

func TestWalkerOrderAndFiltering(t *testing.T) {
	root := newDatasetDir(t, nil)
	addUser(t, root, "012", false, 1)
	addUser(t, root, "003", false, 2)
	// Non-numeric entries under data/ are not users.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data", ".hidden"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data", "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "README"), []byte("x"), 0o644))

	w, err := dataset.NewWalker(root)
	require.NoError(t, err)
	users := collect(t, w)

	require.Len(t, users, 2)
	require.Equal(t, "003", users[0].ID)
	require.Equal(t, "012", users[1].ID)
	require.Len(t, users[0].TrajectoryFiles, 2)
}

func TestWalkerMissingRoot(t *testing.T) {
	_, err := dataset.NewWalker(filepath.Join(t.TempDir(), "nope"))
	var missing *dataset.MissingDirectoryError
	require.ErrorAs(t, err, &missing)
}

func TestWalkerMissingTrajectoryDir(t *testing.T) {
	root := newDatasetDir(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data", "010"), 0o755))

	w, err := dataset.NewWalker(root)
	require.NoError(t, err)
	require.False(t, w.Next())

	var missing *dataset.MissingDirectoryError
	require.ErrorAs(t, w.Err(), &missing)
}

func TestWalkerMissingManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))

	_, err := dataset.NewWalker(root)
	require.Error(t, err)
}
