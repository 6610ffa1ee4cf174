package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ynabsms/ynabsms/pkg/money"
	"github.com/ynabsms/ynabsms/pkg/ynab"
)

// UpdateForeign prompts for the balance of every configured foreign-currency
// account, converts each with a spot rate, and reconciles it against the
// ledger with the fluctuation-payee policy.
func (s *Service) UpdateForeign(ctx context.Context, in io.Reader, out io.Writer) error {
	if len(s.cfg.ForeignCurrencyAccounts) == 0 {
		return fmt.Errorf("no foreign_currency_accounts configured")
	}

	budget, err := s.ledger.FindBudgetByName(s.cfg.BudgetName)
	if err != nil {
		return err
	}
	accounts, err := s.ledger.Accounts(budget.ID)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(s.cfg.ForeignCurrencyAccounts))
	for name := range s.cfg.ForeignCurrencyAccounts {
		names = append(names, name)
	}
	sort.Strings(names)

	reader := bufio.NewReader(in)
	today := time.Now().Format("2006-01-02")

	for _, name := range names {
		currency := s.cfg.ForeignCurrencyAccounts[name]
		acc, err := ynab.FindAccountByName(accounts, name)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Enter the balance or balances for account '%s' in %s:\n", name, currency)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading balance for %s: %w", name, err)
		}
		milliunits, err := ParseBalanceInput(line)
		if err != nil {
			return err
		}
		s.logger.Info("balance entered",
			"account", name, "currency", currency, "amount", money.FromMilliunits(milliunits))

		rate, err := s.rates.GetRate(ctx, currency, s.cfg.BudgetCurrency)
		if err != nil {
			return err
		}
		s.logger.Info("spot rate", "pair", currency+"-"+s.cfg.BudgetCurrency, "rate", rate)

		total := decimal.NewFromInt(money.Convert(milliunits, rate))
		if err := s.reconcileAccount(budget.ID, acc, total, today); err != nil {
			return err
		}
	}
	return nil
}

// ParseBalanceInput accepts one or more amounts joined by '+', with optional
// thousands commas ("1,200.50+300"), and returns the sum in milliunits.
func ParseBalanceInput(line string) (int64, error) {
	sum := decimal.Zero
	for _, part := range strings.Split(strings.TrimSpace(line), "+") {
		part = strings.ReplaceAll(strings.TrimSpace(part), ",", "")
		d, err := decimal.NewFromString(part)
		if err != nil {
			return 0, fmt.Errorf("cannot parse balance %q: %w", part, err)
		}
		sum = sum.Add(d)
	}
	return sum.Mul(decimal.NewFromInt(1000)).Round(0).IntPart(), nil
}
