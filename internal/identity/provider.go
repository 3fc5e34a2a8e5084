package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// CodeIdentifierExists is returned by the provider when a username is claimed.
const CodeIdentifierExists = "form_identifier_exists"

type UpdateUserParams struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
}

// Provider is the external identity provider that owns sessions.
type Provider interface {
	UpdateUser(ctx context.Context, userID string, params UpdateUserParams) error
}

type ErrorDetail struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	LongMessage string `json:"long_message"`
}

// APIError is a non-2xx answer from the provider API.
type APIError struct {
	Status int           `json:"-"`
	Errors []ErrorDetail `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("identity provider returned %d", e.Status)
	}
	return fmt.Sprintf("identity provider returned %d: %s (%s)", e.Status, e.Errors[0].Message, e.Errors[0].Code)
}

// HasCode reports whether err carries a provider error with the given code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, d := range apiErr.Errors {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Client talks to a Clerk-compatible backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: 10 * time.Second})
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: secretKey, TokenType: "Bearer"})),
	}
}

func (c *Client) UpdateUser(ctx context.Context, userID string, params UpdateUserParams) error {
	body, err := json.Marshal(params)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/users/"+userID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(apiErr)
	return apiErr
}

// Nop is used when provider sync is disabled.
type Nop struct{}

func (Nop) UpdateUser(context.Context, string, UpdateUserParams) error { return nil }
