package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type LocalStorage struct {
	basePath  string
	publicURL string
}

func NewLocalStorage(basePath, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{
		basePath:  basePath,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// Objects are sharded two levels deep by key prefix: ab/cd/abcdef...
func (ls *LocalStorage) getPathFromKey(key string) string {
	return filepath.Join(ls.basePath, key[0:2], key[2:4], key)
}

func (ls *LocalStorage) URL(key string) string {
	return ls.publicURL + "/" + key
}

func (ls *LocalStorage) Save(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	filePath := ls.getPathFromKey(key)
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return "", err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(filePath)
		return "", err
	}

	return ls.URL(key), nil
}

func (ls *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	file, err := os.Open(ls.getPathFromKey(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s: %w", key, ErrObjectNotFound)
		}
		return nil, err
	}

	return file, nil
}

// Delete is a no-op for objects that are already gone.
func (ls *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := os.Remove(ls.getPathFromKey(key))
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

func (ls *LocalStorage) KeyFromURL(url string) (string, error) {
	return keyFromURL(ls.publicURL, url)
}
