// Package reconcile decides how a computed account total gets absorbed into
// the ledger: update the recent currency-fluctuation entry, or create a new
// one. It is pure; the mutation is returned as data and the caller performs
// the ledger write.
package reconcile

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FreshnessWindow is how recent a prior fluctuation entry must be to absorb
// a new delta instead of spawning a new entry.
const FreshnessWindow = 7 * 24 * time.Hour

// ErrNotIntegral is returned when the computed total is not a whole number
// of milliunits. A precision bug upstream must never reach the ledger.
var ErrNotIntegral = errors.New("total is not an integer amount of milliunits")

// Entry is the slice of ledger transaction state the planner reads.
type Entry struct {
	ID      string
	Date    string // YYYY-MM-DD
	Amount  int64  // milliunits
	Payee   string
	Cleared bool // cleared or reconciled
}

type Op int

const (
	Create Op = iota
	Update
)

// Mutation is the single ledger write the caller should perform.
type Mutation struct {
	Op      Op
	EntryID string // set for Update
	Amount  int64  // milliunits: the delta for Create, prior amount + delta for Update
	Date    string
	Payee   string
}

// Plan compares the computed total against the account's cleared balance and
// produces the mutation that converges the two.
//
// The most recent cleared entry with the fluctuation payee absorbs the delta
// only if it is both under seven days old and from the same calendar month
// as today; a fresh entry from last month still gets a new line, so month
// boundaries never carry the previous month's adjustment forward. In every
// other case a new reconciled entry dated today is created.
func Plan(total decimal.Decimal, clearedBalance int64, history []Entry, fluctuationPayee, today string) (*Mutation, error) {
	if !total.IsInteger() {
		return nil, fmt.Errorf("%w: %s", ErrNotIntegral, total)
	}
	delta := total.IntPart() - clearedBalance

	latest := latestFluctuation(history, fluctuationPayee)
	if latest != nil && shouldUpdate(latest.Date, today) {
		return &Mutation{
			Op:      Update,
			EntryID: latest.ID,
			Amount:  latest.Amount + delta,
			Date:    latest.Date,
			Payee:   fluctuationPayee,
		}, nil
	}
	return &Mutation{
		Op:     Create,
		Amount: delta,
		Date:   today,
		Payee:  fluctuationPayee,
	}, nil
}

// latestFluctuation picks the maximal-date cleared entry with the given
// payee. On date ties the first one scanned wins.
func latestFluctuation(history []Entry, payee string) *Entry {
	var latest *Entry
	for i := range history {
		e := &history[i]
		if !e.Cleared || e.Payee != payee {
			continue
		}
		if latest == nil || e.Date > latest.Date {
			latest = e
		}
	}
	return latest
}

func shouldUpdate(entryDate, today string) bool {
	ed, err := time.Parse("2006-01-02", entryDate)
	if err != nil {
		return false
	}
	td, err := time.Parse("2006-01-02", today)
	if err != nil {
		return false
	}

	diff := td.Sub(ed)
	if diff < 0 {
		diff = -diff
	}
	if diff >= FreshnessWindow {
		return false
	}
	return ed.Year() == td.Year() && ed.Month() == td.Month()
}
