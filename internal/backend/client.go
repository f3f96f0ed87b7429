package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nfrund/passreset/internal/domain"
)

const changePasswordPath = "/api/changepassword"

// maxErrorBody bounds how much of a rejection body is read looking for a message.
const maxErrorBody = 4 << 10

// Client talks to the account backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the backend rooted at baseURL. A nil
// httpClient falls back to a plain client without a timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type changePasswordPayload struct {
	Password string `json:"password"`
}

// errorPayload is the body the backend sends along with a rejection.
type errorPayload struct {
	Msg string `json:"msg"`
}

// ChangePassword issues a single PATCH to the change password endpoint,
// authenticated with the recovery token. It never retries.
func (c *Client) ChangePassword(ctx context.Context, token, password string) error {
	body, err := json.Marshal(changePasswordPayload{Password: password})
	if err != nil {
		return fmt.Errorf("failed to marshal change password payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+changePasswordPath, bytes.NewReader(body))
	if err != nil {
		return &domain.TransportError{Err: fmt.Errorf("failed to create change password request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RemoteRejectionError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	slog.Debug("Backend accepted password change", "status", resp.StatusCode)
	return nil
}

// readErrorMessage extracts the "msg" field of a JSON error body. Anything
// else yields an empty string.
func readErrorMessage(r io.Reader) string {
	var payload errorPayload
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Msg
}
