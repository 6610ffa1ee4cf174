package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ynabsms/ynabsms/pkg/money"
	"github.com/ynabsms/ynabsms/pkg/ynab"
)

// WiseReconcile converts the Wise multi-currency balances into the budget
// currency and reconciles the total against the Wise mirror account.
func (s *Service) WiseReconcile(ctx context.Context) error {
	balances, err := s.rates.GetBalances(ctx)
	if err != nil {
		return err
	}
	for currency, milliunits := range balances {
		s.logger.Info("wise balance", "currency", currency, "amount", money.FromMilliunits(milliunits))
	}

	total, err := money.Sum(ctx, balances, s.cfg.BudgetCurrency, s.rates)
	if err != nil {
		return err
	}
	s.logger.Info("computed total",
		"currency", s.cfg.BudgetCurrency, "amount", money.FromMilliunits(total))

	budget, err := s.ledger.FindBudgetByName(s.cfg.BudgetName)
	if err != nil {
		return err
	}
	accounts, err := s.ledger.Accounts(budget.ID)
	if err != nil {
		return err
	}
	wiseAccount, err := ynab.FindAccountByName(accounts, s.cfg.WiseAccountName)
	if err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	return s.reconcileAccount(budget.ID, wiseAccount, decimal.NewFromInt(total), today)
}
