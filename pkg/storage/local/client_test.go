package local

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowdysden/rowdysden-backend/pkg/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(config.StorageConfig{LocalDir: t.TempDir(), PublicPath: "/uploads/"})
	require.NoError(t, err)
	return client
}

func TestPutWritesFileAndReturnsURL(t *testing.T) {
	client := newTestClient(t)

	obj, err := client.Put(context.Background(), "images/a.png", "image/png", bytes.NewReader([]byte("data")), 4)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/a.png", obj.URL)
	assert.Equal(t, int64(4), obj.Size)

	got, err := os.ReadFile(filepath.Join(client.Dir(), "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestPutKeepsKeysInsideDir(t *testing.T) {
	client := newTestClient(t)

	obj, err := client.Put(context.Background(), "../../escape.png", "image/png", bytes.NewReader([]byte("x")), 1)
	require.NoError(t, err)
	assert.Equal(t, "escape.png", obj.Key)
	_, err = os.Stat(filepath.Join(client.Dir(), "escape.png"))
	require.NoError(t, err)
}

func TestDeleteIgnoresMissing(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Delete(context.Background(), "images/missing.png"))

	_, err := client.Put(context.Background(), "images/b.png", "image/png", bytes.NewReader([]byte("x")), 1)
	require.NoError(t, err)
	require.NoError(t, client.Delete(context.Background(), "images/b.png"))
	_, err = os.Stat(filepath.Join(client.Dir(), "images", "b.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(client.Dir()))
	require.Error(t, client.Ping(context.Background()))
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New(config.StorageConfig{})
	require.Error(t, err)
}
