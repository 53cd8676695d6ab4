package config

import "costume-go/errcode"

// Store persists small named blobs such as the fan curve.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// ErrNotStored is returned by Load when key has never been saved.
var ErrNotStored = errcode.New(errcode.NotFound, "store", "key not stored")

// MemStore keeps blobs in RAM; nothing survives a reset.
type MemStore struct {
	m map[string][]byte
}

func NewMemStore() *MemStore { return &MemStore{m: make(map[string][]byte)} }

func (s *MemStore) Load(key string) ([]byte, error) {
	b, ok := s.m[key]
	if !ok {
		return nil, ErrNotStored
	}
	return append([]byte(nil), b...), nil
}

func (s *MemStore) Save(key string, data []byte) error {
	s.m[key] = append([]byte(nil), data...)
	return nil
}
