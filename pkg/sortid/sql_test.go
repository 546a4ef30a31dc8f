package sortid

import (
	"database/sql"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQL_TextOrderMatchesIDOrder(t *testing.T) {
	db := openInMemoryDB(t)
	_, err := db.Exec(`CREATE TABLE events (id TEXT PRIMARY KEY, n INTEGER NOT NULL)`)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 7))
	ids := make([]ID, 200)
	for i := range ids {
		ids[i] = ID(rng.Uint64() >> rng.UintN(64))
		_, err := db.Exec(`INSERT OR IGNORE INTO events (id, n) VALUES (?, ?)`, ids[i], int64(ids[i]))
		require.NoError(t, err)
	}
	slices.SortFunc(ids, ID.Compare)
	ids = slices.Compact(ids)

	rows, err := db.Query(`SELECT id, n FROM events ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []ID
	for rows.Next() {
		var id, n ID
		require.NoError(t, rows.Scan(&id, &n))
		assert.Equal(t, id, n, "text and integer columns disagree")
		got = append(got, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, ids, got)
}

func TestSQL_LongRoundTrip(t *testing.T) {
	db := openInMemoryDB(t)
	_, err := db.Exec(`CREATE TABLE docs (id TEXT PRIMARY KEY, title TEXT)`)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(9, 9))
	longs := make([]Long, 100)
	for i := range longs {
		longs[i] = LongFromParts(rng.Uint64(), rng.Uint64())
		_, err := db.Exec(`INSERT INTO docs (id, title) VALUES (?, ?)`, longs[i], "doc")
		require.NoError(t, err)
	}
	slices.SortFunc(longs, Long.Compare)

	rows, err := db.Query(`SELECT id FROM docs ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []Long
	for rows.Next() {
		var l Long
		require.NoError(t, rows.Scan(&l))
		got = append(got, l)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, longs, got)

	var title string
	require.NoError(t, db.QueryRow(`SELECT title FROM docs WHERE id = ?`, longs[0]).Scan(&title))
	assert.Equal(t, "doc", title)
}
