package service

import (
	"context"

	"github.com/k0kubun/pp/v3"

	"github.com/ynabsms/ynabsms/pkg/importer"
	"github.com/ynabsms/ynabsms/pkg/messages"
	"github.com/ynabsms/ynabsms/pkg/models"
	"github.com/ynabsms/ynabsms/pkg/parser"
	"github.com/ynabsms/ynabsms/pkg/ynab"
)

// SmsImport parses every bank notification newer than the ledger's latest
// cleared entry and bulk-creates the results. Import keys make re-runs safe:
// the ledger reports duplicates instead of booking them again.
func (s *Service) SmsImport(ctx context.Context) error {
	profile := parser.BudapestBank()
	if len(s.cfg.SmsSourceIDs) > 0 {
		profile.SourceIDs = s.cfg.SmsSourceIDs
	}

	s.logger.Info("connecting to YNAB", "budget", s.cfg.BudgetName)
	budget, err := s.ledger.FindBudgetByName(s.cfg.BudgetName)
	if err != nil {
		return err
	}
	accounts, err := s.ledger.Accounts(budget.ID)
	if err != nil {
		return err
	}
	smsAccount, err := ynab.FindAccountByName(accounts, s.cfg.SmsAccountName)
	if err != nil {
		return err
	}
	cashAccount, err := ynab.FindAccountByName(accounts, s.cfg.CashAccountName)
	if err != nil {
		return err
	}
	cashPayeeID, err := s.ledger.TransferPayeeID(budget.ID, cashAccount.ID)
	if err != nil {
		return err
	}

	s.logger.Info("downloading transactions", "account", smsAccount.Name)
	history, err := s.ledger.TransactionsByAccount(budget.ID, smsAccount.ID)
	if err != nil {
		return err
	}
	since := ynab.LatestClearedDate(history)

	txs, err := s.querySms(ctx, profile, since)
	if err != nil {
		return err
	}

	builder := importer.NewBuilder(smsAccount.ID, cashPayeeID, profile.SourceTag)
	payloads, err := builder.Payloads(txs)
	if err != nil {
		return err
	}

	s.logger.Info("ready to import", "count", len(payloads))
	if s.verbose {
		pp.Println(payloads)
	}
	if len(payloads) == 0 {
		return nil
	}

	summary, err := s.ledger.CreateTransactions(budget.ID, payloads)
	if err != nil {
		return err
	}
	s.logger.Info("imported transactions",
		"created", len(summary.TransactionIDs),
		"duplicates", len(summary.DuplicateImportIDs))
	return nil
}

// querySms reads and parses every notification since the given date. Any
// unrecognized message aborts the batch.
func (s *Service) querySms(ctx context.Context, profile *parser.Profile, since string) ([]*models.Transaction, error) {
	dbPath := s.cfg.MessageDBPath
	if dbPath == "" {
		var err error
		dbPath, err = messages.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	store, err := messages.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	s.logger.Info("querying messages", "since", since, "sources", profile.SourceIDs)
	rows, err := store.Query(ctx, profile.SourceIDs, since)
	if err != nil {
		return nil, err
	}

	p := parser.New(s.logger)
	var txs []*models.Transaction
	for _, row := range rows {
		tx, err := p.Parse(profile, row.Text)
		if err != nil {
			return nil, err
		}
		if tx == nil {
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
