package models

// Kind classifies a bank notification by the kind of movement it reports.
type Kind string

const (
	KindPOS              Kind = "pos"
	KindATM              Kind = "atm"
	KindIncomingPOS      Kind = "incoming-pos"
	KindIncomingTransfer Kind = "incoming-transfer"
	KindOutgoingTransfer Kind = "outgoing-transfer"
	KindUtility          Kind = "utility"
	KindLoanPayment      Kind = "loan-payment"

	// KindFailedPOS labels the discard rule for failed-transaction notices.
	// No Transaction ever carries it.
	KindFailedPOS Kind = "failed-pos"
)

// Partner is a closed union: either a freeform payee name, or the cash
// withdrawal marker telling the importer to rebind the transaction to the
// linked cash account's transfer payee. The marker can never collide with a
// real payee name because it is not represented as text at all.
type Partner struct {
	name string
	cash bool
}

// PartnerName wraps a freeform payee name.
func PartnerName(name string) Partner { return Partner{name: name} }

// CashWithdrawal returns the cash-withdrawal marker.
func CashWithdrawal() Partner { return Partner{cash: true} }

// IsCash reports whether this is the cash-withdrawal marker.
func (p Partner) IsCash() bool { return p.cash }

// Name returns the freeform payee name, or "" for the cash marker.
func (p Partner) Name() string { return p.name }

// Transaction is one parsed bank notification.
//
// Value and Balance are whole currency units exactly as the bank reported
// them; Value is negative for debits. Balance is the account balance right
// after the transaction and is what makes re-imported notifications
// distinguishable from genuine repeat purchases of the same amount.
type Transaction struct {
	Kind    Kind
	Value   int64
	Balance int64
	Date    string // YYYY-MM-DD
	Time    string // HH:MM:SS, empty when the notification carries none
	Partner Partner
	Memo    string
}
