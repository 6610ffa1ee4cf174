// Package wise is a minimal client for the Wise REST API: the personal
// profile's multi-currency balances and pairwise spot rates.
package wise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/ynabsms/ynabsms/pkg/money"
)

const defaultBaseURL = "https://api.transferwise.com"

// ErrRateUnavailable is returned when the API answers but carries no rate
// for the requested currency pair.
var ErrRateUnavailable = errors.New("no spot rate returned")

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

func New(token string) *Client {
	return NewWithBaseURL(token, defaultBaseURL)
}

// NewWithBaseURL exists for tests pointing the client at a fake server.
func NewWithBaseURL(token, baseURL string) *Client {
	return &Client{token: token, baseURL: baseURL, http: http.DefaultClient}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wise: GET %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("wise: GET %s: decoding response: %w", path, err)
	}
	return nil
}

type profile struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

func (c *Client) personalProfileID(ctx context.Context) (int64, error) {
	var profiles []profile
	if err := c.get(ctx, "/v1/profiles", &profiles); err != nil {
		return 0, err
	}
	for _, p := range profiles {
		if p.Type == "personal" {
			return p.ID, nil
		}
	}
	return 0, errors.New("wise: cannot find personal profile")
}

type borderlessAccount struct {
	ProfileID int64 `json:"profileId"`
	Balances  []struct {
		Amount struct {
			Value    float64 `json:"value"`
			Currency string  `json:"currency"`
		} `json:"amount"`
	} `json:"balances"`
}

// GetBalances returns the personal borderless account's balances per
// currency, in milliunits. Multiple balances in one currency are summed.
func (c *Client) GetBalances(ctx context.Context) (map[string]int64, error) {
	profileID, err := c.personalProfileID(ctx)
	if err != nil {
		return nil, err
	}

	var accounts []borderlessAccount
	path := fmt.Sprintf("/v1/borderless-accounts?profileId=%d", profileID)
	if err := c.get(ctx, path, &accounts); err != nil {
		return nil, err
	}

	var match *borderlessAccount
	for i := range accounts {
		if accounts[i].ProfileID == profileID {
			match = &accounts[i]
			break
		}
	}
	if match == nil {
		return nil, errors.New("wise: cannot match profileId in account response")
	}

	balances := make(map[string]int64)
	for _, b := range match.Balances {
		balances[b.Amount.Currency] += money.ToMilliunits(b.Amount.Value)
	}
	return balances, nil
}

type rateEntry struct {
	Rate float64 `json:"rate"`
}

// GetRate returns the current spot rate from source to target. Identical
// currencies short-circuit to 1 without a network call.
func (c *Client) GetRate(ctx context.Context, source, target string) (float64, error) {
	return c.GetRateAt(ctx, source, target, "")
}

// GetRateAt is GetRate at an optional ISO date (midday); a date not in
// YYYY-MM-DD form is ignored and the current rate is returned.
func (c *Client) GetRateAt(ctx context.Context, source, target, date string) (float64, error) {
	if source == target {
		return 1, nil
	}

	path := fmt.Sprintf("/v1/rates?source=%s&target=%s", source, target)
	if isoDate.MatchString(date) {
		path += "&time=" + date + "T12:00"
	}

	var entries []rateEntry
	if err := c.get(ctx, path, &entries); err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("%w: %s->%s", ErrRateUnavailable, source, target)
	}
	return entries[0].Rate, nil
}
