package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/testutil"
)

func newStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStore(dir, testutil.NopLogger())
	require.NoError(t, err)
	return store, dir
}

func TestSaveAndGet(t *testing.T) {
	store, _ := newStore(t)

	name, err := store.Save("ABCD2345.jpg", []byte("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "ABCD2345.jpg", name)

	data, err := store.Get("ABCD2345.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestGetNotFound(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Get("missing.jpg")
	assert.ErrorIs(t, err, model.ErrReceiptNotFound)
}

func TestDelete(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Save("ABCD2345.jpg", []byte("image"))
	require.NoError(t, err)

	require.NoError(t, store.Delete("ABCD2345.jpg"))

	_, err = store.Get("ABCD2345.jpg")
	assert.ErrorIs(t, err, model.ErrReceiptNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	store, _ := newStore(t)

	err := store.Delete("missing.jpg")
	assert.ErrorIs(t, err, model.ErrReceiptNotFound)
}

func TestSaveStripsPathComponents(t *testing.T) {
	store, dir := newStore(t)

	name, err := store.Save("../../etc/passwd", []byte("nope"))
	require.NoError(t, err)
	assert.Equal(t, "passwd", name)

	// Nothing escaped the base directory
	_, err = os.Stat(filepath.Join(dir, "passwd"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "..", "..", "etc", "passwd"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupOlderThan(t *testing.T) {
	store, dir := newStore(t)

	_, err := store.Save("old.jpg", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("new.jpg", []byte("new"))
	require.NoError(t, err)

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.jpg"), stale, stale))

	removed, err := store.CleanupOlderThan(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get("old.jpg")
	assert.ErrorIs(t, err, model.ErrReceiptNotFound)

	_, err = store.Get("new.jpg")
	assert.NoError(t, err)
}

func TestCleanupNothingToRemove(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Save("new.jpg", []byte("new"))
	require.NoError(t, err)

	removed, err := store.CleanupOlderThan(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
