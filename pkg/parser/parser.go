package parser

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/ynabsms/ynabsms/pkg/models"
)

// ErrUnrecognized is returned when no rule in the profile matches a message.
// A silently dropped transaction is worse than a loud failure, so callers are
// expected to abort the whole batch on it.
var ErrUnrecognized = errors.New("no rule matched message")

// Extractor turns a rule's capture groups into a transaction. Returning
// (nil, nil) discards a recognized message, e.g. a failed-transaction notice.
type Extractor func(groups []string) (*models.Transaction, error)

// Rule pairs a pattern with its extractor. Order inside a profile is
// load-bearing: the first matching rule wins, which is how notifications
// sharing a long common prefix (POS vs ATM) are told apart.
type Rule struct {
	Kind    models.Kind
	Pattern *regexp.Regexp
	Extract Extractor
}

// Profile describes one bank: its ordered rule table, the sender identifiers
// its notifications arrive from, and the tag prefixing its import keys.
// Profiles are plain data so new banks can be added without touching the
// parser.
type Profile struct {
	Name      string
	SourceTag string
	SourceIDs []string
	Rules     []Rule
}

type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse scans the profile's rules in order and applies the first one whose
// pattern matches. A nil transaction with a nil error means the message was
// recognized and intentionally discarded; ErrUnrecognized means the rule set
// was exhausted without a match.
func (p *Parser) Parse(profile *Profile, text string) (*models.Transaction, error) {
	for _, rule := range profile.Rules {
		groups := rule.Pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		tx, err := rule.Extract(groups)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Kind, err)
		}
		if tx == nil {
			p.logger.Debug("discarding recognized message", "rule", rule.Kind)
			return nil, nil
		}
		p.logger.Debug("parsed message", "rule", rule.Kind, "date", tx.Date, "value", tx.Value)
		return tx, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnrecognized, text)
}
