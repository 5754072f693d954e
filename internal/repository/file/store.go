// Package file - хранилища поверх JSON-файлов, по файлу на запись.
// Режим по умолчанию, когда postgres не настроен.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrInvalidKey = errors.New("file store: invalid key")
	errNotExist   = errors.New("file store: record not found")
)

// jsonDir - каталог с файлами <key>.json
type jsonDir struct {
	mu   sync.RWMutex
	base string
}

func newJSONDir(base string) (*jsonDir, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, errors.New("file store: base path is required")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("file store: ensure base path: %w", err)
	}
	return &jsonDir{base: base}, nil
}

func (d *jsonDir) path(key string) (string, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.base, clean+".json"), nil
}

func (d *jsonDir) exists(key string) (bool, error) {
	p, err := d.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("file store: stat: %w", err)
}

// write пишет через временный файл, чтобы читатель не увидел половину записи
func (d *jsonDir) write(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: marshal: %w", err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}

func (d *jsonDir) read(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(key)
	if err != nil {
		return errNotExist
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errNotExist
		}
		return fmt.Errorf("file store: read: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("file store: decode %s: %w", filepath.Base(p), err)
	}
	return nil
}

func (d *jsonDir) remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(key)
	if err != nil {
		return errNotExist
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errNotExist
		}
		return fmt.Errorf("file store: remove: %w", err)
	}
	return nil
}

// keys - имена записей без расширения, в порядке каталога
func (d *jsonDir) keys() ([]string, error) {
	entries, err := os.ReadDir(d.base)
	if err != nil {
		return nil, fmt.Errorf("file store: list: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	return out, nil
}

// sanitizeKey - ключ должен быть одним элементом пути без выхода из каталога
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || key == "." || key == ".." {
		return "", ErrInvalidKey
	}
	if strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return "", ErrInvalidKey
	}
	return key, nil
}
