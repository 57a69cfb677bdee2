package filterstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/m-zajac/gitpulse/internal/app"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyPrefix = "filter/"

// KVStore provides simple kv data storage
type KVStore interface {
	ReadPrefix(prefix []byte) (map[string][]byte, error)
	UpdateKey(key []byte, data []byte) error
	DeleteKey(key []byte) error
}

// Store keeps project filter selections in KVStore.
// This struct is an adapter for app.FilterStore.
type Store struct {
	kv KVStore
	l  logrus.FieldLogger
}

var _ app.FilterStore = &Store{}

// New creates new Store instance.
func New(kv KVStore, l logrus.FieldLogger) *Store {
	return &Store{
		kv: kv,
		l:  l,
	}
}

// Filters returns all stored filters by project id.
// Malformed entries are skipped.
func (s *Store) Filters() (map[int]app.Filter, error) {
	entries, err := s.kv.ReadPrefix([]byte(keyPrefix))
	if err != nil {
		return nil, fmt.Errorf("reading filters: %w", err)
	}

	filters := make(map[int]app.Filter, len(entries))
	for key, data := range entries {
		id, err := strconv.Atoi(strings.TrimPrefix(key, keyPrefix))
		if err != nil {
			s.l.Warnf("skipping filter entry with invalid key %q", key)
			continue
		}
		entry, err := unserialize(data)
		if err != nil {
			s.l.Warnf("skipping filter entry of project %d: %v", id, err)
			continue
		}
		filters[id] = app.Filter(entry.Filter)
	}

	return filters, nil
}

// SaveFilter stores filter of the project.
func (s *Store) SaveFilter(projectID int, filter app.Filter) error {
	data, err := serialize(dbEntry{
		Updated: time.Now().Unix(),
		Filter:  string(filter.Resolve()),
	})
	if err != nil {
		return fmt.Errorf("serializing data for save: %w", err)
	}

	return s.kv.UpdateKey(dbKey(projectID), data)
}

// DeleteFilter removes filter of the project.
func (s *Store) DeleteFilter(projectID int) error {
	return s.kv.DeleteKey(dbKey(projectID))
}

type dbEntry struct {
	Updated int64
	Filter  string
}

func dbKey(projectID int) []byte {
	return []byte(keyPrefix + strconv.Itoa(projectID))
}

func serialize(entry dbEntry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshalling json: %w", err)
	}

	return data, nil
}

func unserialize(data []byte) (*dbEntry, error) {
	var entry dbEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshalling json: %w", err)
	}

	return &entry, nil
}
