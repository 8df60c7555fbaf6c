// Package cbu fetches official exchange rates from the Central Bank of
// Uzbekistan JSON API.
package cbu

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Rate is one entry of the CBU currency feed. The API reports the rate as a
// decimal string, e.g. "12650.21".
type Rate struct {
	Code     string `json:"Code"`
	Ccy      string `json:"Ccy"`
	Rate     string `json:"Rate"`
	Date     string `json:"Date"`
	Nominal  string `json:"Nominal"`
	CcyNameE string `json:"CcyNm_EN"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// USDRate returns the current USD->UZS rate.
func (c *Client) USDRate() (decimal.Decimal, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/USD/")
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read rate response: %w", err)
	}

	var rates []Rate
	if err := json.Unmarshal(body, &rates); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse rate response: %w", err)
	}

	for _, r := range rates {
		if r.Ccy == "USD" {
			rate, err := decimal.NewFromString(r.Rate)
			if err != nil {
				return decimal.Zero, fmt.Errorf("invalid rate value %q: %w", r.Rate, err)
			}
			if rate.Sign() <= 0 {
				return decimal.Zero, fmt.Errorf("non-positive rate value %q", r.Rate)
			}
			return rate, nil
		}
	}

	return decimal.Zero, fmt.Errorf("USD rate not present in response")
}
