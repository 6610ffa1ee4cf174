package messages

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankNumber = "+36303444770"

// appleEpochNanos converts a wall-clock time to chat.db's representation:
// nanoseconds since 2001-01-01 UTC.
func appleEpochNanos(t time.Time) int64 {
	appleEpoch := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Sub(appleEpoch).Nanoseconds()
}

func newFakeChatDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE handle (id TEXT);
		CREATE TABLE message (text TEXT, date INTEGER, handle_id INTEGER);
	`)
	require.NoError(t, err)

	res, err := db.Exec(`INSERT INTO handle (id) VALUES (?)`, bankNumber)
	require.NoError(t, err)
	bankHandle, err := res.LastInsertId()
	require.NoError(t, err)

	res, err = db.Exec(`INSERT INTO handle (id) VALUES (?)`, "+36201234567")
	require.NoError(t, err)
	otherHandle, err := res.LastInsertId()
	require.NoError(t, err)

	at := func(y int, m time.Month, d int) int64 {
		return appleEpochNanos(time.Date(y, m, d, 12, 0, 0, 0, time.Local))
	}

	rows := []struct {
		text   string
		date   int64
		handle int64
	}{
		{"newer message", at(2021, time.March, 12), bankHandle},
		{"older message", at(2021, time.March, 5), bankHandle},
		{"too old", at(2021, time.February, 20), bankHandle},
		{"not from the bank", at(2021, time.March, 10), otherHandle},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO message (text, date, handle_id) VALUES (?, ?, ?)`, r.text, r.date, r.handle)
		require.NoError(t, err)
	}

	return path
}

func TestQueryFiltersAndOrders(t *testing.T) {
	store, err := Open(newFakeChatDB(t))
	require.NoError(t, err)
	defer store.Close()

	rows, err := store.Query(context.Background(), []string{bankNumber}, "2021-03-01")
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "older message", rows[0].Text)
	assert.Equal(t, "newer message", rows[1].Text)
}

func TestQueryIncludesStartingDate(t *testing.T) {
	store, err := Open(newFakeChatDB(t))
	require.NoError(t, err)
	defer store.Close()

	rows, err := store.Query(context.Background(), []string{bankNumber}, "2021-03-05")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "older message", rows[0].Text)
}

func TestQueryRejectsMalformedSourceIDs(t *testing.T) {
	store, err := Open(newFakeChatDB(t))
	require.NoError(t, err)
	defer store.Close()

	for _, id := range []string{"36303444770", "+36 30 344", `+36"; DROP TABLE message;--`, ""} {
		_, err := store.Query(context.Background(), []string{id}, "2021-03-01")
		assert.Error(t, err, "source id %q should be rejected", id)
	}

	_, err = store.Query(context.Background(), nil, "2021-03-01")
	assert.Error(t, err)
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.db"))
	assert.Error(t, err)
}
