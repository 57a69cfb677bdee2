package mock

import (
	"strings"
	"sync"
)

// KVStore mocks filterstore.KVStore.
type KVStore struct {
	data    map[string][]byte
	updates int
	deletes int
	m       sync.Mutex

	// Err is returned from every call when set.
	Err error
}

// NewKVStore creates new KVStore instance with given data
func NewKVStore(data map[string][]byte) *KVStore {
	if data == nil {
		data = make(map[string][]byte)
	}
	return &KVStore{
		data: data,
	}
}

// ReadPrefix returns entries with keys starting with prefix.
func (s *KVStore) ReadPrefix(prefix []byte) (map[string][]byte, error) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	out := make(map[string][]byte)
	for k, v := range s.data {
		if strings.HasPrefix(k, string(prefix)) {
			out[k] = v
		}
	}

	return out, nil
}

// UpdateKey stores given data under given key.
func (s *KVStore) UpdateKey(key []byte, data []byte) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.Err != nil {
		return s.Err
	}

	s.updates++
	s.data[string(key)] = data

	return nil
}

// DeleteKey removes data under given key.
func (s *KVStore) DeleteKey(key []byte) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.Err != nil {
		return s.Err
	}

	s.deletes++
	delete(s.data, string(key))

	return nil
}

// Data returns copy of stored data.
func (s *KVStore) Data() map[string][]byte {
	s.m.Lock()
	defer s.m.Unlock()

	out := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Updates returns update call count.
func (s *KVStore) Updates() int {
	s.m.Lock()
	defer s.m.Unlock()

	return s.updates
}

// Deletes returns delete call count.
func (s *KVStore) Deletes() int {
	s.m.Lock()
	defer s.m.Unlock()

	return s.deletes
}
