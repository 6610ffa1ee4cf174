package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config is the flat document every subcommand loads once at startup and
// treats as immutable afterwards.
type Config struct {
	YNABToken string `mapstructure:"ynab_token"`
	WiseToken string `mapstructure:"wise_token"`

	BudgetName     string `mapstructure:"budget_name"`
	BudgetCurrency string `mapstructure:"budget_currency"`

	SmsAccountName   string `mapstructure:"sms_account_name"`
	CashAccountName  string `mapstructure:"cash_account_name"`
	WiseAccountName  string `mapstructure:"wise_account_name"`
	FluctuationPayee string `mapstructure:"currency_fluctuation_payee"`

	// SmsSourceIDs overrides the bank profile's sender identifiers.
	SmsSourceIDs  []string `mapstructure:"sms_source_ids"`
	MessageDBPath string   `mapstructure:"message_db_path"`

	// ForeignCurrencyAccounts maps ledger account names to the currency
	// their balance is entered in.
	ForeignCurrencyAccounts map[string]string `mapstructure:"foreign_currency_accounts"`
}

// Build reads the YAML config at path and binds any matching command-line
// flags over it. A .env next to the process plus the YNAB_TOKEN and
// WISE_TOKEN environment variables may supply the tokens, keeping them out
// of the config file.
func Build(path string, flags *pflag.FlagSet) (*Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.BindEnv("ynab_token", "YNAB_TOKEN"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("wise_token", "WISE_TOKEN"); err != nil {
		return nil, err
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.YNABToken == "" {
		return nil, fmt.Errorf("ynab_token is not set (config file or YNAB_TOKEN)")
	}
	if cfg.BudgetName == "" {
		return nil, fmt.Errorf("budget_name is not set in %s", path)
	}
	return &cfg, nil
}
