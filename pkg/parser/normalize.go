package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadAmount is returned when an amount capture is not a plain base-10
// integer after removing grouping spaces.
var ErrBadAmount = errors.New("malformed amount")

// diacriticRepairs maps the bank's two-character transliterations back to
// the accented letters of the Hungarian alphabet. Repairing already-correct
// text is a no-op: none of the left-hand digraphs occur in proper Hungarian.
var diacriticRepairs = strings.NewReplacer(
	"a'", "á", "A'", "Á",
	"e'", "é", "E'", "É",
	"i'", "í", "I'", "Í",
	"o'", "ó", "O'", "Ó",
	"u'", "ú", "U'", "Ú",
	"o:", "ö", "O:", "Ö",
	"u:", "ü", "U:", "Ü",
	`o"`, "ő", `O"`, "Ő",
	`u"`, "ű", `U"`, "Ű",
)

// RepairDiacritics fixes the transliterated accents the bank's SMS gateway
// produces in payee names and memos.
func RepairDiacritics(s string) string {
	return diacriticRepairs.Replace(s)
}

// ParseAmount parses an amount with optional space grouping ("1 234") into
// whole currency units.
func ParseAmount(s string) (int64, error) {
	compact := strings.Join(strings.Fields(s), "")
	n, err := strconv.ParseInt(compact, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	return n, nil
}

// NormalizeDate rewrites the bank's dotted date ("2020.05.01") into dashed
// ISO form. Calendar validity is deliberately not checked here; a bad date
// fails loudly at the ledger boundary instead.
func NormalizeDate(s string) string {
	return strings.ReplaceAll(s, ".", "-")
}
