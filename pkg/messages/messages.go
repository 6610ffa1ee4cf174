// Package messages reads bank notifications out of the local iMessage
// database. It is a read-only collaborator: nothing here interprets the
// message text.
package messages

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// Row is one notification as stored by the message database.
type Row struct {
	RowID     int64
	Text      string
	Timestamp string
}

var sourceIDPattern = regexp.MustCompile(`^\+[0-9]+$`)

// Store wraps a read-only handle on the chat database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the conventional macOS chat.db location under $HOME.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate message database: %w", err)
	}
	return filepath.Join(home, "Library", "Messages", "chat.db"), nil
}

// Open opens the message database read-only.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening message store: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening message store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Query returns every message sent by the given source identifiers on or
// after startingDate (YYYY-MM-DD), oldest first. Ascending order matters:
// downstream duplicate suppression relies on "latest" being last.
//
// chat.db timestamps count nanoseconds from the Apple epoch (2001-01-01);
// the conversion to local time happens in SQL.
func (s *Store) Query(ctx context.Context, sourceIDs []string, startingDate string) ([]Row, error) {
	clause, err := sourceClause(sourceIDs)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
SELECT
    rowid,
    text,
    datetime(date/1000000000 + strftime('%%s','2001-01-01'), 'unixepoch', 'localtime') AS date_
FROM message
WHERE
    handle_id IN (SELECT rowid FROM handle WHERE id IN (%s))
    AND date_ >= date(?)
ORDER BY date ASC
`, clause)

	rows, err := s.db.QueryContext(ctx, query, startingDate)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var text sql.NullString
		if err := rows.Scan(&r.RowID, &text, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		if !text.Valid {
			return nil, fmt.Errorf("message row %d has no text", r.RowID)
		}
		r.Text = text.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// sourceClause builds the quoted IN-list for the handle lookup. The
// identifiers are interpolated into SQL, so they are validated strictly.
func sourceClause(sourceIDs []string) (string, error) {
	if len(sourceIDs) == 0 {
		return "", fmt.Errorf("no source identifiers configured")
	}
	quoted := make([]string, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		if !sourceIDPattern.MatchString(id) {
			return "", fmt.Errorf("source identifier %q must be '+' followed by digits", id)
		}
		quoted = append(quoted, `"`+id+`"`)
	}
	return strings.Join(quoted, ", "), nil
}
