package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]func(dir string) Store {
	t.Helper()
	return map[string]func(dir string) Store{
		BackendJSON: func(dir string) Store {
			s, err := NewFileStore(dir)
			require.NoError(t, err)
			return s
		},
		BackendSQLite: func(dir string) Store {
			s, err := OpenSQLite(dir)
			require.NoError(t, err)
			return s
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			s := open(dir)

			_, ok, err := s.Load(KeyEntries)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Save(KeyEntries, []byte(`[{"id":"a","type":"RESIST","timestamp":1}]`)))
			require.NoError(t, s.Save(KeyQuitEpoch, []byte(`1700000000000`)))

			got, ok, err := s.Load(KeyEntries)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `[{"id":"a","type":"RESIST","timestamp":1}]`, string(got))

			require.NoError(t, s.Save(KeyQuitEpoch, []byte(`1700000000001`)))
			got, _, err = s.Load(KeyQuitEpoch)
			require.NoError(t, err)
			assert.Equal(t, "1700000000001", string(got))

			require.NoError(t, s.Close())

			// Values survive a reopen.
			s = open(dir)
			defer s.Close()
			got, ok, err = s.Load(KeyQuitEpoch)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "1700000000001", string(got))

			require.NoError(t, s.Delete(KeyQuitEpoch, KeyWallet))
			_, ok, err = s.Load(KeyQuitEpoch)
			require.NoError(t, err)
			assert.False(t, ok)
			_, ok, err = s.Load(KeyEntries)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestStoreRejectsBadInput(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t.TempDir())
			defer s.Close()

			tests := []struct {
				name string
				key  string
			}{
				{"traversal", "../escape"},
				{"upper case", "Entries"},
				{"empty", ""},
				{"dot", "a.json"},
			}
			for _, tt := range tests {
				_, _, err := s.Load(tt.key)
				assert.ErrorIs(t, err, ErrInvalidKey, tt.name)
				assert.ErrorIs(t, s.Save(tt.key, []byte(`1`)), ErrInvalidKey, tt.name)
			}

			assert.Error(t, s.Save(KeyWallet, []byte(`{not json`)))
			_, ok, err := s.Load(KeyWallet)
			require.NoError(t, err)
			assert.False(t, ok, "rejected value must not be written")
		})
	}
}

func TestFileStoreSeesExternalWrites(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(KeySettings, []byte(`{"enableGamification":true}`)))
	got, _, err := s.Load(KeySettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"enableGamification":true}`, string(got))

	// Another process replaces the file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"enableGamification":false}`), 0644))

	got, ok, err := s.Load(KeySettings)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"enableGamification":false}`, string(got))
}

func TestFileStoreMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wallet.json"), []byte(`{"spent":`), 0644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	_, ok, err := s.Load(KeyWallet)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFileStorePreload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entries.json"), []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.json"), []byte(`["math_1"]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Not A Key.json"), []byte(`1`), 0644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Preload())

	assert.Len(t, s.memoryCache, 2)
	got, ok, err := s.Load(KeyGames)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["math_1"]`, string(got))
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(KeyEntries, []byte(`[]`)))
	}

	names, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "entries.json")}, names)
}

func TestFileStoreClosed(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Load(KeyEntries)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Save(KeyEntries, []byte(`[]`)), ErrClosed)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("JSON", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	assert.Equal(t, dir, s.Location())

	s, err = Open("sqlite", dir)
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)
	assert.Equal(t, filepath.Join(dir, SQLiteFileName), s.Location())

	_, err = Open("redis", dir)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestMigrateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSQLite(dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, Migrate(s.db))
	var versions int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM schema_migrations;`).Scan(&versions))
	assert.Equal(t, 1, versions)
}
