package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwacu250/landplots/internal/storage"
)

func TestLocal_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := storage.NewLocal(dir, "/files/")
	require.NoError(t, err)

	obj, err := l.Save(context.Background(), storage.UploadInput{
		Reader:      strings.NewReader("fake image bytes"),
		Filename:    "photo.JPG",
		ContentType: "image/jpeg",
		Folder:      "plots",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.Key, "plots/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".jpg"), "extension is lowercased")
	assert.Equal(t, "/files/"+obj.Key, obj.URL)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(obj.Key)))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	require.NoError(t, l.Delete(context.Background(), obj.Key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(obj.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_DeleteUnknownKeyIsNoop(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir(), "/files")
	require.NoError(t, err)
	assert.NoError(t, l.Delete(context.Background(), "plots/does-not-exist.jpg"))
}

func TestLocal_DeleteRejectsTraversal(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir(), "/files")
	require.NoError(t, err)

	for _, key := range []string{"../etc/passwd", "..", "plots/../../x", ""} {
		assert.Error(t, l.Delete(context.Background(), key), "key %q", key)
	}
}

func TestLocal_KeysAreUnique(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir(), "/files")
	require.NoError(t, err)

	a, err := l.Save(context.Background(), storage.UploadInput{
		Reader: strings.NewReader("a"), Filename: "same.png", Folder: "plots",
	})
	require.NoError(t, err)
	b, err := l.Save(context.Background(), storage.UploadInput{
		Reader: strings.NewReader("b"), Filename: "same.png", Folder: "plots",
	})
	require.NoError(t, err)

	assert.NotEqual(t, a.Key, b.Key)
}
