package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// IdentityClient calls the external identity service to verify session
// tokens. The identity service is an opaque oracle: token in, user id and
// role out.
type IdentityClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Entry
}

// VerifyResult is the identity service's answer for a token
type VerifyResult struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// NewIdentityClient creates a new identity client
func NewIdentityClient(baseURL, apiKey string) *IdentityClient {
	return &IdentityClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logrus.WithField("component", "identity_client"),
	}
}

// Verify validates a session token and returns the user id and role
func (c *IdentityClient) Verify(ctx context.Context, token string) (string, string, error) {
	reqBody, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return "", "", err
	}

	url := fmt.Sprintf("%s/api/v1/tokens/verify", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("Identity service unreachable: %v", err)
		return "", "", fmt.Errorf("identity service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", "", fmt.Errorf("token rejected by identity service")
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var result VerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("failed to decode identity response: %w", err)
	}
	if result.UserID == "" {
		return "", "", fmt.Errorf("identity service returned empty user id")
	}

	return result.UserID, result.Role, nil
}
