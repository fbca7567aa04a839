package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/correia-crespo/triagem/internal/models"
)

// Gateway is the controller's view of the policy gateway.
type Gateway interface {
	Ask(ctx context.Context, messages []models.Message) (string, error)
}

type chatRequest struct {
	Messages []models.Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error"`
}

// GatewayError carries the HTTP status and the server's user-safe message.
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("gateway returned status %d", e.Status)
}

// HTTPGateway talks to POST {base}/api/chat with a hard request timeout.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) Ask(ctx context.Context, messages []models.Message) (string, error) {
	body, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded chatResponse
	// A body that fails to decode still maps onto the status-based error.
	_ = json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode != http.StatusOK {
		return "", &GatewayError{Status: resp.StatusCode, Message: decoded.Error}
	}
	if decoded.Reply == "" {
		return "", &GatewayError{Status: resp.StatusCode, Message: "empty reply"}
	}
	return decoded.Reply, nil
}
