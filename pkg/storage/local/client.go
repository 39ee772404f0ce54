package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rowdysden/rowdysden-backend/pkg/config"
	"github.com/rowdysden/rowdysden-backend/pkg/storage"
)

// Client writes uploads to a directory that the API serves statically.
type Client struct {
	dir        string
	publicPath string
}

var _ storage.ObjectStore = (*Client)(nil)

// New creates the upload directory if needed.
func New(cfg config.StorageConfig) (*Client, error) {
	dir := strings.TrimSpace(cfg.LocalDir)
	if dir == "" {
		return nil, errors.New("local storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	public := "/" + strings.Trim(strings.TrimSpace(cfg.PublicPath), "/")
	return &Client{dir: dir, publicPath: public}, nil
}

// Dir returns the root directory for static serving.
func (c *Client) Dir() string { return c.dir }

// PublicPath returns the URL prefix uploads are served under.
func (c *Client) PublicPath() string { return c.publicPath }

func (c *Client) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", errors.New("object key is required")
	}
	return filepath.Join(c.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Put writes the body to disk under key.
func (c *Client) Put(_ context.Context, key, contentType string, body io.Reader, size int64) (storage.Object, error) {
	target, err := c.resolve(key)
	if err != nil {
		return storage.Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return storage.Object{}, fmt.Errorf("create object dir: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return storage.Object{}, fmt.Errorf("create object file: %w", err)
	}
	written, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr != nil {
		_ = os.Remove(target)
		return storage.Object{}, fmt.Errorf("write object: %w", copyErr)
	}
	if closeErr != nil {
		return storage.Object{}, fmt.Errorf("close object: %w", closeErr)
	}
	cleanKey := strings.TrimPrefix(path.Clean("/"+key), "/")
	return storage.Object{
		Key:         cleanKey,
		URL:         strings.TrimRight(c.publicPath, "/") + "/" + cleanKey,
		ContentType: contentType,
		Size:        written,
	}, nil
}

// Delete removes a stored file. Missing files are ignored.
func (c *Client) Delete(_ context.Context, key string) error {
	target, err := c.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// Ping checks the directory is still present.
func (c *Client) Ping(context.Context) error {
	info, err := os.Stat(c.dir)
	if err != nil {
		return fmt.Errorf("stat upload dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload path %q is not a directory", c.dir)
	}
	return nil
}
