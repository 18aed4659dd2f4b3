package store

import (
	"strings"
	"sync"
)

// MemStore is an in-memory UserStore for tests and headless demos.
type MemStore struct {
	mu         sync.RWMutex
	byID       map[string]UserRecord
	byUsername map[string]string
	byEmail    map[string]string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		byID:       make(map[string]UserRecord),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *MemStore) UserExists(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok, nil
}

func (s *MemStore) UserExistsByUsername(username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byUsername[normalize(username)]
	return ok, nil
}

func (s *MemStore) UserExistsByEmail(email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[normalize(email)]
	return ok, nil
}

func (s *MemStore) InsertUser(rec UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[rec.ID]; ok {
		return ErrDuplicate
	}
	if _, ok := s.byUsername[normalize(rec.Username)]; ok {
		return ErrDuplicate
	}
	if _, ok := s.byEmail[normalize(rec.Email)]; ok {
		return ErrDuplicate
	}
	s.byID[rec.ID] = rec
	s.byUsername[normalize(rec.Username)] = rec.ID
	s.byEmail[normalize(rec.Email)] = rec.ID
	return nil
}

func (s *MemStore) UserByID(id string) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemStore) UserByEmail(email string) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[normalize(email)]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return s.byID[id], nil
}

// Close satisfies UserStore; nothing to release.
func (s *MemStore) Close() error { return nil }
