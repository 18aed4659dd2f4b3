package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
)

const (
	userPrefix     = "user:"
	usernamePrefix = "username:"
	emailPrefix    = "email:"
)

// LevelStore is a UserStore backed by LevelDB. Records are stored as JSON
// under the user id, with username and email kept as secondary index keys
// pointing back at the id.
type LevelStore struct {
	mu sync.Mutex
	db *leveldb.DB
}

// OpenLevelStore opens (or creates) a user store at the given path.
func OpenLevelStore(path string) (*LevelStore, error) {
	if path == "" {
		return nil, errors.New("store: path required")
	}
	db, err := leveldb.OpenFile(filepath.Clean(path), nil)
	if err != nil {
		return nil, fmt.Errorf("open user store: %w", err)
	}
	return &LevelStore{db: db}, nil
}

// Close flushes and closes the underlying database.
func (s *LevelStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *LevelStore) hasKey(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return false, ErrClosed
	}
	return s.db.Has([]byte(key), nil)
}

func (s *LevelStore) UserExists(id string) (bool, error) {
	return s.hasKey(userPrefix + id)
}

func (s *LevelStore) UserExistsByUsername(username string) (bool, error) {
	return s.hasKey(usernamePrefix + normalize(username))
}

func (s *LevelStore) UserExistsByEmail(email string) (bool, error) {
	return s.hasKey(emailPrefix + normalize(email))
}

// InsertUser writes the record and both secondary index keys. The
// existence checks and the writes run under one lock so concurrent inserts
// cannot race the uniqueness guarantees.
func (s *LevelStore) InsertUser(rec UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}
	for _, key := range []string{
		userPrefix + rec.ID,
		usernamePrefix + normalize(rec.Username),
		emailPrefix + normalize(rec.Email),
	} {
		ok, err := s.db.Has([]byte(key), nil)
		if err != nil {
			return err
		}
		if ok {
			return ErrDuplicate
		}
	}

	blob, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	batch.Put([]byte(userPrefix+rec.ID), blob)
	batch.Put([]byte(usernamePrefix+normalize(rec.Username)), []byte(rec.ID))
	batch.Put([]byte(emailPrefix+normalize(rec.Email)), []byte(rec.ID))
	return s.db.Write(batch, nil)
}

func (s *LevelStore) getRecord(key string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return UserRecord{}, ErrClosed
	}
	blob, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, err
	}
	var rec UserRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		return UserRecord{}, fmt.Errorf("decode user record %s: %w", key, err)
	}
	return rec, nil
}

func (s *LevelStore) UserByID(id string) (UserRecord, error) {
	return s.getRecord(userPrefix + id)
}

func (s *LevelStore) UserByEmail(email string) (UserRecord, error) {
	s.mu.Lock()
	if s.db == nil {
		s.mu.Unlock()
		return UserRecord{}, ErrClosed
	}
	id, err := s.db.Get([]byte(emailPrefix+normalize(email)), nil)
	s.mu.Unlock()
	if errors.Is(err, leveldb.ErrNotFound) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, err
	}
	return s.getRecord(userPrefix + string(id))
}
