// Package importer maps parsed transactions onto the ledger's write shape.
package importer

import (
	"fmt"

	"go.bmvs.io/ynab/api"
	"go.bmvs.io/ynab/api/transaction"

	"github.com/ynabsms/ynabsms/pkg/models"
)

// Builder builds ledger payloads for one account pair: the SMS-mirrored
// account and the linked cash account that absorbs ATM withdrawals.
type Builder struct {
	accountID           string
	cashTransferPayeeID string
	sourceTag           string
}

func NewBuilder(accountID, cashTransferPayeeID, sourceTag string) *Builder {
	return &Builder{
		accountID:           accountID,
		cashTransferPayeeID: cashTransferPayeeID,
		sourceTag:           sourceTag,
	}
}

// ImportKey derives the ledger's idempotency token for a notification. The
// memo is excluded on purpose: cosmetic memo differences must not let the
// same notification book twice.
func ImportKey(sourceTag, date string, value, balance int64) string {
	return fmt.Sprintf("%s:%s:%d:%d", sourceTag, date, value, balance)
}

// Payload converts a parsed transaction to a ledger payload. Whole currency
// units become milliunits. A cash-withdrawal partner is rebound to the cash
// account's transfer payee; every other partner imports as a freeform payee
// name.
func (b *Builder) Payload(tx *models.Transaction) (transaction.PayloadTransaction, error) {
	date, err := api.DateFromString(tx.Date)
	if err != nil {
		return transaction.PayloadTransaction{}, fmt.Errorf("transaction date %q: %w", tx.Date, err)
	}

	memo := tx.Memo
	importID := ImportKey(b.sourceTag, tx.Date, tx.Value, tx.Balance)
	payload := transaction.PayloadTransaction{
		AccountID: b.accountID,
		Date:      date,
		Amount:    tx.Value * 1000,
		Cleared:   transaction.ClearingStatusCleared,
		Approved:  true,
		Memo:      &memo,
		ImportID:  &importID,
	}

	if tx.Partner.IsCash() {
		payeeID := b.cashTransferPayeeID
		payload.PayeeID = &payeeID
	} else {
		name := tx.Partner.Name()
		payload.PayeeName = &name
	}
	return payload, nil
}

func (b *Builder) Payloads(txs []*models.Transaction) ([]transaction.PayloadTransaction, error) {
	payloads := make([]transaction.PayloadTransaction, 0, len(txs))
	for _, tx := range txs {
		p, err := b.Payload(tx)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}
