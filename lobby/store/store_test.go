package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]UserStore {
	t.Helper()
	level, err := OpenLevelStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = level.Close() })
	return map[string]UserStore{
		"mem":   NewMemStore(),
		"level": level,
	}
}

func sampleRecord(id, username, email string) UserRecord {
	return UserRecord{
		ID:           id,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		Username:     username,
		PasswordHash: "deadbeef",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestInsertAndLookup(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleRecord("u1", "ada", "ada@example.com")
			require.NoError(t, s.InsertUser(rec))

			ok, err := s.UserExists("u1")
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = s.UserExistsByUsername("ADA")
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = s.UserExistsByEmail("ada@example.com")
			require.NoError(t, err)
			require.True(t, ok)

			got, err := s.UserByID("u1")
			require.NoError(t, err)
			require.Equal(t, rec.Username, got.Username)

			got, err = s.UserByEmail("Ada@Example.com")
			require.NoError(t, err)
			require.Equal(t, rec.ID, got.ID)
		})
	}
}

func TestDuplicateInsertRejected(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.InsertUser(sampleRecord("u1", "ada", "ada@example.com")))

			// Same username, different everything else.
			err := s.InsertUser(sampleRecord("u2", "ada", "other@example.com"))
			require.ErrorIs(t, err, ErrDuplicate)

			// Same email.
			err = s.InsertUser(sampleRecord("u3", "grace", "ada@example.com"))
			require.ErrorIs(t, err, ErrDuplicate)

			// Same id.
			err = s.InsertUser(sampleRecord("u1", "grace", "grace@example.com"))
			require.ErrorIs(t, err, ErrDuplicate)
		})
	}
}

func TestMissingLookups(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := s.UserExists("ghost")
			require.NoError(t, err)
			require.False(t, ok)

			_, err = s.UserByID("ghost")
			require.ErrorIs(t, err, ErrNotFound)

			_, err = s.UserByEmail("ghost@example.com")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLevelStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenLevelStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.InsertUser(sampleRecord("u1", "ada", "ada@example.com")))
	require.NoError(t, s.Close())

	reopened, err := OpenLevelStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.UserByID("u1")
	require.NoError(t, err)
	require.Equal(t, "ada", got.Username)
}

func TestClosedStore(t *testing.T) {
	s, err := OpenLevelStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.UserByID("u1")
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.InsertUser(sampleRecord("u1", "a", "a@b.c")), ErrClosed)
}
