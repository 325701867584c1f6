// Package validate calls the API Ninjas validation endpoints to check
// phone numbers and email addresses for plausibility.
package validate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const defaultBaseURL = "https://api.api-ninjas.com/v1"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is a thin client for the validation service. A failed or
// unreachable call fails the operation; there are no retries.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a validation client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
}

type validationResponse struct {
	IsValid bool `json:"is_valid"`
}

// ValidPhone reports whether the service considers the phone number valid.
func (c *Client) ValidPhone(ctx context.Context, phone string) (bool, error) {
	query := url.Values{"number": {phone}}
	return c.check(ctx, "/validatephone?"+query.Encode())
}

// ValidEmail reports whether the service considers the email address valid.
func (c *Client) ValidEmail(ctx context.Context, email string) (bool, error) {
	query := url.Values{"email": {email}}
	return c.check(ctx, "/validateemail?"+query.Encode())
}

func (c *Client) check(ctx context.Context, path string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build validation request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call validation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("validation service returned status %d", resp.StatusCode)
	}

	var result validationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode validation response: %w", err)
	}
	return result.IsValid, nil
}
