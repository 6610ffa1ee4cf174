package parser

import (
	"regexp"

	"github.com/ynabsms/ynabsms/pkg/models"
)

// BudapestBank returns the notification profile for Budapest Bank Visa
// Prémium card and HUF current accounts.
//
// The rule order mirrors the order the bank introduced the message formats
// and must not be re-sorted: several patterns are prefixes or variants of
// one another and precedence is what disambiguates them.
func BudapestBank() *Profile {
	return &Profile{
		Name:      "budapest-bank",
		SourceTag: "BB-SMS-",
		SourceIDs: []string{"+36303444770", "+36309266245"},
		Rules: []Rule{
			{
				Kind:    models.KindPOS,
				Pattern: regexp.MustCompile(`^Visa Prémium(?: Kàrtya)? POS tranzakciò ([0-9 ]+)Ft Idöpont: ([0-9\.]+) ([0-9:]+) E: ([0-9 ]+)Ft Hely: (.+)$`),
				Extract: func(g []string) (*models.Transaction, error) {
					value, balance, err := amountPair(g[1], g[4])
					if err != nil {
						return nil, err
					}
					return &models.Transaction{
						Kind:    models.KindPOS,
						Value:   -value,
						Balance: balance,
						Date:    NormalizeDate(g[2]),
						Time:    g[3],
						Partner: models.PartnerName(RepairDiacritics(g[5])),
					}, nil
				},
			},
			{
				Kind:    models.KindATM,
				Pattern: regexp.MustCompile(`^Visa Prémium(?: Kàrtya)? ATM tranzakciò ([0-9 ]+)Ft Idöpont: ([0-9\.]+) ([0-9:]+) E: ([0-9 ]+)Ft Hely: (.+)$`),
				Extract: func(g []string) (*models.Transaction, error) {
					value, balance, err := amountPair(g[1], g[4])
					if err != nil {
						return nil, err
					}
					// The location is kept as memo; the partner is the cash
					// marker so the importer books a transfer, not a payee.
					return &models.Transaction{
						Kind:    models.KindATM,
						Value:   -value,
						Balance: balance,
						Date:    NormalizeDate(g[2]),
						Time:    g[3],
						Partner: models.CashWithdrawal(),
						Memo:    RepairDiacritics(g[5]),
					}, nil
				},
			},
			{
				Kind:    models.KindIncomingPOS,
				Pattern: regexp.MustCompile(`^Visa Prémium Kàrtya utòlagos jòvàiràs ([0-9 ]+)Ft Idöpont: ([0-9\.]+) ([0-9:]+) Hely: (.+) E: ([0-9 ]+)Ft$`),
				Extract: func(g []string) (*models.Transaction, error) {
					value, balance, err := amountPair(g[1], g[5])
					if err != nil {
						return nil, err
					}
					return &models.Transaction{
						Kind:    models.KindIncomingPOS,
						Value:   value,
						Balance: balance,
						Date:    NormalizeDate(g[2]),
						Time:    g[3],
						Partner: models.PartnerName(RepairDiacritics(g[4])),
					}, nil
				},
			},
			{
				Kind:    models.KindIncomingTransfer,
				Pattern: regexp.MustCompile(`^HUF fizetési szàmla \([0-9]+\) utalàs érkezett ([0-9 ]+)Ft ([0-9\.]+) E: ([0-9 ]+)Ft Küldö: (.*) Közl: (.*)$`),
				Extract: func(g []string) (*models.Transaction, error) {
					value, balance, err := amountPair(g[1], g[3])
					if err != nil {
						return nil, err
					}
					return &models.Transaction{
						Kind:    models.KindIncomingTransfer,
						Value:   value,
						Balance: balance,
						Date:    NormalizeDate(g[2]),
						Partner: models.PartnerName(g[4]),
						Memo:    g[5],
					}, nil
				},
			},
			{
				Kind:    models.KindOutgoingTransfer,
				Pattern: regexp.MustCompile(`^HUF fizetési szàmla \([0-9]+\) (?:àllandò )?utalàsi megbìzàs teljesült ([0-9 ]+)Ft ([0-9\.]+) E: ([0-9 ]+)Ft Kedv.: (.*) Közl: (.*)$`),
				Extract: func(g []string) (*models.Transaction, error) {
					value, balance, err := amountPair(g[1], g[3])
					if err != nil {
						return nil, err
					}
					return &models.Transaction{
						Kind:    models.KindOutgoingTransfer,
						Value:   -value,
						Balance: balance,
						Date:    NormalizeDate(g[2]),
						Partner: models.PartnerName(g[4]),
						Memo:    g[5],
					}, nil
				},
			},
			{
				Kind:    models.KindUtility,
				Pattern: regexp.MustCompile(`^HUF fizetési szàmla \([0-9]+\) közüzemi megbìzàsa teljesült: (.*?) ([0-9 ]+)Ft Kedv.: (.*) ([0-9\.]+) E: ([0-9 ]+)Ft(?: Közl: (.*))?$`),
				Extract: func(g []string) (*models.Transaction, error) {
					value, balance, err := amountPair(g[2], g[5])
					if err != nil {
						return nil, err
					}
					memo := g[1]
					if g[6] != "" {
						memo += " " + g[6]
					}
					return &models.Transaction{
						Kind:    models.KindUtility,
						Value:   -value,
						Balance: balance,
						Date:    NormalizeDate(g[4]),
						Partner: models.PartnerName(g[3]),
						Memo:    memo,
					}, nil
				},
			},
			{
				Kind:    models.KindLoanPayment,
				Pattern: regexp.MustCompile(`^HUF fizetési szàmla \([0-9]+\) esedékes (hitel/ tartozàs|kamat) törlesztve ([0-9 ]+)Ft ([0-9\.]+) E: ([0-9 ]+)Ft Közl: (.*)$`),
				Extract: func(g []string) (*models.Transaction, error) {
					value, balance, err := amountPair(g[2], g[4])
					if err != nil {
						return nil, err
					}
					return &models.Transaction{
						Kind:    models.KindLoanPayment,
						Value:   -value,
						Balance: balance,
						Date:    NormalizeDate(g[3]),
						Partner: models.PartnerName("Budapest Bank"),
						Memo:    g[1],
					}, nil
				},
			},
			{
				// Failed POS attempts never moved money.
				Kind:    models.KindFailedPOS,
				Pattern: regexp.MustCompile(`^Sikertelen Visa Prémium (?:Kàrtya )?POS`),
				Extract: func([]string) (*models.Transaction, error) {
					return nil, nil
				},
			},
		},
	}
}

func amountPair(value, balance string) (int64, int64, error) {
	v, err := ParseAmount(value)
	if err != nil {
		return 0, 0, err
	}
	b, err := ParseAmount(balance)
	if err != nil {
		return 0, 0, err
	}
	return v, b, nil
}
