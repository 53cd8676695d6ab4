//go:build !tinygo

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"costume-go/errcode"
)

// LoadFile reads a YAML configuration, then normalises and validates it.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &errcode.E{C: errcode.NotFound, Op: "config load", Msg: path, Err: err}
	}
	return ParseYAML(raw)
}

// ParseYAML is Parse for YAML documents.
func ParseYAML(raw []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, &errcode.E{C: errcode.InvalidConfig, Op: "config parse", Err: err}
	}
	c.Normalize()
	return c, c.Validate()
}

// FileStore keeps each blob as one file under Dir.
type FileStore struct {
	Dir string
}

func (s FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", errcode.New(errcode.InvalidPayload, "store", "bad key: "+key)
	}
	return filepath.Join(s.Dir, key), nil
}

func (s FileStore) Load(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotStored
	}
	return b, err
}

// Save replaces the blob through a temporary file and rename.
func (s FileStore) Save(key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}
