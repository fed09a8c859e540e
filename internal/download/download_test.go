package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("pdf"), 0644))
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	touch(t, dir, "b.pdf")

	names, err := Snapshot(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a.pdf": true, "b.pdf": true}, names)
}

func TestCorrelateAndRename(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "old.pdf")

	before, err := Snapshot(dir)
	require.NoError(t, err)

	touch(t, dir, "vypiska-ul.pdf")

	name, err := CorrelateAndRename(dir, before, "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "1234567890_"+time.Now().Format("20060102")+".pdf", name)
	assert.FileExists(t, filepath.Join(dir, name))
	assert.NoFileExists(t, filepath.Join(dir, "vypiska-ul.pdf"))
}

func TestCorrelateAndRenameCollision(t *testing.T) {
	dir := t.TempDir()
	dated := "1234567890_" + time.Now().Format("20060102") + ".pdf"
	touch(t, dir, dated)

	before, err := Snapshot(dir)
	require.NoError(t, err)

	touch(t, dir, "vypiska-ul.pdf")

	name, err := CorrelateAndRename(dir, before, "1234567890")
	require.NoError(t, err)
	assert.NotEqual(t, dated, name, "collision should fall back to a timestamped name")
	assert.FileExists(t, filepath.Join(dir, name))
	assert.FileExists(t, filepath.Join(dir, dated), "the existing file must not be overwritten")
}

func TestCorrelateAndRenameAmbiguous(t *testing.T) {
	dir := t.TempDir()
	before, err := Snapshot(dir)
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func()
	}{
		{"No new files", func() {}},
		{"Two new files", func() {
			touch(t, dir, "one.pdf")
			touch(t, dir, "two.pdf")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			_, err := CorrelateAndRename(dir, before, "1234567890")
			assert.Error(t, err)
		})
	}
}

func TestCorrelateAndRenameIgnoresPartials(t *testing.T) {
	dir := t.TempDir()
	before, err := Snapshot(dir)
	require.NoError(t, err)

	touch(t, dir, "vypiska-ul.pdf")
	touch(t, dir, "other.pdf.crdownload")

	name, err := CorrelateAndRename(dir, before, "1234567890")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, name))
}

func TestAwaitSettledNoPartials(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "done.pdf")

	hadPartials, err := AwaitSettled(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, hadPartials)
}
