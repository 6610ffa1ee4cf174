// Package service wires the parser, the message store, the rate client and
// the ledger client into the three runnable workflows.
package service

import (
	"go.bmvs.io/ynab/api"
	"go.bmvs.io/ynab/api/account"
	"go.bmvs.io/ynab/api/transaction"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/ynabsms/ynabsms/pkg/config"
	"github.com/ynabsms/ynabsms/pkg/money"
	"github.com/ynabsms/ynabsms/pkg/reconcile"
	"github.com/ynabsms/ynabsms/pkg/wise"
	"github.com/ynabsms/ynabsms/pkg/ynab"
)

type Service struct {
	logger  *log.Logger
	cfg     *config.Config
	ledger  *ynab.Client
	rates   *wise.Client
	verbose bool
}

func New(logger *log.Logger, cfg *config.Config) *Service {
	return &Service{
		logger: logger,
		cfg:    cfg,
		ledger: ynab.New(cfg.YNABToken),
		rates:  wise.New(cfg.WiseToken),
	}
}

// SetVerbose enables payload dumps before mutations are issued.
func (s *Service) SetVerbose(v bool) {
	s.verbose = v
}

// reconcileAccount plans and applies the fluctuation mutation that converges
// the account's cleared balance to the computed total.
func (s *Service) reconcileAccount(budgetID string, acc *account.Account, total decimal.Decimal, today string) error {
	history, err := s.ledger.TransactionsByAccount(budgetID, acc.ID)
	if err != nil {
		return err
	}

	mutation, err := reconcile.Plan(total, acc.ClearedBalance, toEntries(history), s.cfg.FluctuationPayee, today)
	if err != nil {
		return err
	}
	return s.apply(budgetID, acc.ID, mutation)
}

func (s *Service) apply(budgetID, accountID string, m *reconcile.Mutation) error {
	date, err := api.DateFromString(m.Date)
	if err != nil {
		return err
	}

	payee := m.Payee
	payload := transaction.PayloadTransaction{
		AccountID: accountID,
		Date:      date,
		Amount:    m.Amount,
		PayeeName: &payee,
		Cleared:   transaction.ClearingStatusReconciled,
		Approved:  true,
	}

	switch m.Op {
	case reconcile.Update:
		s.logger.Info("updating fluctuation entry",
			"id", m.EntryID, "date", m.Date, "amount", money.FromMilliunits(m.Amount))
		_, err = s.ledger.UpdateTransaction(budgetID, m.EntryID, payload)
	default:
		s.logger.Info("creating fluctuation entry",
			"date", m.Date, "amount", money.FromMilliunits(m.Amount))
		_, err = s.ledger.CreateTransaction(budgetID, payload)
	}
	return err
}

func toEntries(txs []*transaction.Transaction) []reconcile.Entry {
	entries := make([]reconcile.Entry, 0, len(txs))
	for _, t := range txs {
		payee := ""
		if t.PayeeName != nil {
			payee = *t.PayeeName
		}
		entries = append(entries, reconcile.Entry{
			ID:      t.ID,
			Date:    t.Date.Format("2006-01-02"),
			Amount:  t.Amount,
			Payee:   payee,
			Cleared: ynab.IsCleared(t.Cleared),
		})
	}
	return entries
}
