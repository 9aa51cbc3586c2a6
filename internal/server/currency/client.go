// Package currency converts amounts using an exchange-rate HTTP service
// that answers GET {base}/{CODE} with the rates quoted against CODE.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/shopspring/decimal"
)

// Rates is the upstream payload for one base currency.
type Rates struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Conversion is the result of converting an amount between currencies.
type Conversion struct {
	OriginalAmount   decimal.Decimal `json:"original_amount"`
	OriginalCurrency string          `json:"original_currency"`
	ConvertedAmount  decimal.Decimal `json:"converted_amount"`
	TargetCurrency   string          `json:"target_currency"`
	ConversionRate   decimal.Decimal `json:"conversion_rate"`
	Display          string          `json:"display"`
	LastUpdated      string          `json:"last_updated"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a client for the rates service at baseURL. apiKey may
// be empty; when set it is sent as a bearer token.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// ValidCode reports whether code is three upper-case ASCII letters.
func ValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// Rates fetches the rate table for base. Transport failures and non-200
// answers wrap common.ErrUpstreamUnavailable.
func (c *Client) Rates(ctx context.Context, base string) (*Rates, error) {
	if !ValidCode(base) {
		return nil, fmt.Errorf("%w: invalid currency code %q", common.ErrValidation, base)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+base, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rates service answered %d", common.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var rates Rates
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		return nil, fmt.Errorf("%w: decode rates: %v", common.ErrUpstreamUnavailable, err)
	}
	return &rates, nil
}

// Convert converts amount from one currency into another. The converted
// amount is rounded to the target currency's minor units.
func (c *Client) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*Conversion, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", common.ErrValidation)
	}
	if !ValidCode(from) || !ValidCode(to) {
		return nil, fmt.Errorf("%w: currency codes must have 3 letters", common.ErrValidation)
	}

	rates, err := c.Rates(ctx, from)
	if err != nil {
		return nil, err
	}

	rate, ok := rates.Rates[to]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedCurrency, to)
	}

	fraction := minorUnits(to)
	converted := amount.Mul(rate).Round(fraction)

	return &Conversion{
		OriginalAmount:   amount,
		OriginalCurrency: from,
		ConvertedAmount:  converted,
		TargetCurrency:   to,
		ConversionRate:   rate,
		Display:          display(converted, to, fraction),
		LastUpdated:      rates.Date,
	}, nil
}

// minorUnits returns the number of decimal places used by code, or 2 for
// currencies go-money does not know.
func minorUnits(code string) int32 {
	if cur := money.GetCurrency(code); cur != nil {
		return int32(cur.Fraction)
	}
	return 2
}

func display(amount decimal.Decimal, code string, fraction int32) string {
	if money.GetCurrency(code) == nil {
		return amount.StringFixed(fraction) + " " + code
	}
	return money.New(amount.Shift(fraction).IntPart(), code).Display()
}
