package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a.png", want: "a.png"},
		{in: "dir/a.png", want: "a.png"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: "", wantErr: true},
		{in: ".", wantErr: true},
		{in: "..", wantErr: true},
		{in: "/", wantErr: true},
	}

	for _, tc := range tests {
		got, err := CleanName(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidName, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a.png"))
	assert.Equal(t, "image/jpeg", ContentType("photo.JPG"))
	assert.Equal(t, "application/octet-stream", ContentType("sketch.unknownext"))
	assert.Equal(t, "application/octet-stream", ContentType("README"))
}

func TestAttachmentStore_SaveOpenRemove(t *testing.T) {
	root := t.TempDir()
	store := NewAttachmentStore(root)

	require.NoError(t, store.Save(7, "a.png", strings.NewReader("first")))
	require.NoError(t, store.Save(7, "a.png", strings.NewReader("second")))
	assert.FileExists(t, filepath.Join(root, "7", "a.png"))

	exists, err := store.Exists(7, "a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	f, size, err := store.Open(7, "a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "second", string(data))
	assert.Equal(t, int64(len("second")), size)

	require.NoError(t, store.Remove(7, "a.png"))
	assert.ErrorIs(t, store.Remove(7, "a.png"), ErrNotFound)

	_, _, err = store.Open(7, "a.png")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err = store.Exists(7, "a.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAttachmentStore_RejectsUncleanNames(t *testing.T) {
	store := NewAttachmentStore(t.TempDir())

	assert.ErrorIs(t, store.Save(1, "../escape.txt", strings.NewReader("x")), ErrInvalidName)
	_, _, err := store.Open(1, "..")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestAttachmentStore_RemoveAll(t *testing.T) {
	root := t.TempDir()
	store := NewAttachmentStore(root)

	require.NoError(t, store.Save(3, "a.txt", strings.NewReader("a")))
	require.NoError(t, store.Save(3, "b.txt", strings.NewReader("b")))
	require.NoError(t, store.Save(4, "c.txt", strings.NewReader("c")))

	require.NoError(t, store.RemoveAll(3))
	assert.NoDirExists(t, filepath.Join(root, "3"))
	assert.FileExists(t, filepath.Join(root, "4", "c.txt"))

	// missing directory is a no-op
	require.NoError(t, store.RemoveAll(3))
	require.NoError(t, store.RemoveAll(99))

	_, err := os.Stat(root)
	assert.NoError(t, err)
}
