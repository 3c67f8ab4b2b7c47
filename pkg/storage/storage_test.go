package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root, "/uploads")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), strings.NewReader("%PDF-1.4"), "results", "sem 1.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/results/"))
	assert.True(t, strings.HasSuffix(url, "-sem_1.pdf"))

	onDisk := filepath.Join(root, strings.TrimPrefix(url, "/uploads"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root, "/uploads")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), strings.NewReader("x"), "../../etc", "../passwd")
	require.NoError(t, err)

	onDisk := filepath.Join(root, strings.TrimPrefix(url, "/uploads"))
	assert.True(t, strings.HasPrefix(onDisk, root))
}

func TestLocalStorageRejectsForeignURL(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	assert.Error(t, store.Delete(context.Background(), "https://example.com/a.pdf"))
}

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/unimanage/materials/1-notes.pdf": "unimanage/materials/1-notes",
		"https://res.cloudinary.com/demo/image/upload/unimanage/a.png":                      "unimanage/a",
		"https://res.cloudinary.com/demo/image/upload/videos/intro.png":                     "videos/intro",
		"https://example.com/no-upload-segment.png":                                         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, extractPublicID(in), in)
	}
}
