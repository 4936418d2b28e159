package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Email é o corpo de POST /emails
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// Client envia emails transacionais pela API do Resend
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(base, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(base, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Send devolve o id do email aceito pelo provedor
func (c *Client) Send(ctx context.Context, e Email) (string, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Message != "" {
			return "", fmt.Errorf("resend http %d: %s", res.StatusCode, er.Message)
		}
		return "", fmt.Errorf("resend http %s", res.Status)
	}

	var out sendResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ID, nil
}
