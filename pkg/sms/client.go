// Package sms sends transactional SMS through an Eskiz-compatible gateway.
package sms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

type Client struct {
	BaseURL    string
	Email      string
	Password   string
	HTTPClient *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Data    struct {
		Token string `json:"token"`
	} `json:"data"`
}

type sendRequest struct {
	MobilePhone string `json:"mobile_phone"`
	Message     string `json:"message"`
	From        string `json:"from"`
}

func NewClient(baseURL, email, password string) *Client {
	return &Client{
		BaseURL:  baseURL,
		Email:    email,
		Password: password,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// The gateway expects local numbers without the leading plus.
func normalizePhone(phone string) string {
	return strings.TrimPrefix(phone, "+")
}

func (c *Client) authenticate() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	jsonData, err := json.Marshal(loginRequest{Email: c.Email, Password: c.Password})
	if err != nil {
		return "", err
	}

	resp, err := c.HTTPClient.Post(c.BaseURL+"/auth/login", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to authenticate with SMS gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("SMS gateway auth returned status %d", resp.StatusCode)
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}

	// Gateway tokens live for 30 days; refresh well before that.
	c.token = loginResp.Data.Token
	c.tokenExp = time.Now().Add(24 * time.Hour)
	return c.token, nil
}

// Send delivers one message to the given phone number.
func (c *Client) Send(phone, message string) error {
	token, err := c.authenticate()
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(sendRequest{
		MobilePhone: normalizePhone(phone),
		Message:     message,
		From:        "4546",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/message/sms/send", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}
	return nil
}
