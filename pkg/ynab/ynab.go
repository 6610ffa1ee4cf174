// Package ynab wraps the YNAB SDK behind the narrow surface the services
// need: budget and account lookup by name, transaction history, and the
// create/update calls. Everything returned by the SDK is treated as an
// already-authenticated, already-paginated snapshot.
package ynab

import (
	"fmt"

	"go.bmvs.io/ynab"
	"go.bmvs.io/ynab/api/account"
	"go.bmvs.io/ynab/api/budget"
	"go.bmvs.io/ynab/api/transaction"
)

// EpochDate is the floor date used when an account has no cleared history
// yet to derive a starting date from.
const EpochDate = "2001-01-01"

type Client struct {
	client ynab.ClientServicer
}

func New(token string) *Client {
	return &Client{client: ynab.NewClient(token)}
}

// FindBudgetByName returns the budget with the exact given name.
func (c *Client) FindBudgetByName(name string) (*budget.Summary, error) {
	budgets, err := c.client.Budget().GetBudgets()
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("cannot find budget with name: %s", name)
}

func (c *Client) Accounts(budgetID string) ([]*account.Account, error) {
	return c.client.Account().GetAccounts(budgetID)
}

func (c *Client) TransactionsByAccount(budgetID, accountID string) ([]*transaction.Transaction, error) {
	return c.client.Transaction().GetTransactionsByAccount(budgetID, accountID, nil)
}

func (c *Client) CreateTransaction(budgetID string, payload transaction.PayloadTransaction) (*transaction.CreatedTransactions, error) {
	return c.client.Transaction().CreateTransaction(budgetID, payload)
}

// CreateTransactions bulk-creates payloads in one API call. The ledger drops
// payloads whose import id it has already seen, which is what makes repeated
// runs idempotent.
func (c *Client) CreateTransactions(budgetID string, payloads []transaction.PayloadTransaction) (*transaction.CreatedTransactions, error) {
	return c.client.Transaction().CreateTransactions(budgetID, payloads)
}

func (c *Client) UpdateTransaction(budgetID, transactionID string, payload transaction.PayloadTransaction) (*transaction.Transaction, error) {
	return c.client.Transaction().UpdateTransaction(budgetID, transactionID, payload)
}

// TransferPayeeID resolves the payee that books transfers into the given
// account.
func (c *Client) TransferPayeeID(budgetID, accountID string) (string, error) {
	payees, err := c.client.Payee().GetPayees(budgetID)
	if err != nil {
		return "", err
	}
	for _, p := range payees {
		if p.TransferAccountID != nil && *p.TransferAccountID == accountID {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("no transfer payee found for account %s", accountID)
}

// FindAccountByName returns the account with the exact given name.
func FindAccountByName(accounts []*account.Account, name string) (*account.Account, error) {
	for _, a := range accounts {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("cannot find account with name: %s", name)
}

// IsCleared reports whether a transaction has been cleared or reconciled.
func IsCleared(status transaction.ClearingStatus) bool {
	return status == transaction.ClearingStatusCleared ||
		status == transaction.ClearingStatusReconciled
}

// LatestClearedDate returns the maximum date among cleared transactions, or
// EpochDate when there are none. ISO dates compare correctly as strings.
func LatestClearedDate(txs []*transaction.Transaction) string {
	latest := ""
	for _, t := range txs {
		if !IsCleared(t.Cleared) {
			continue
		}
		if d := t.Date.Format("2006-01-02"); d > latest {
			latest = d
		}
	}
	if latest == "" {
		return EpochDate
	}
	return latest
}
