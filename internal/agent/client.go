// Package agent wraps the AI chat bridge (FastAPI + LLM). Failures never
// propagate as errors to the UI: the bridge contract already has an error
// variant, so connection problems degrade into it.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChatResponse is the bridge's structured answer. Type is cards, text or
// error; Data depends on the type, so it stays raw until the UI decodes it.
type ChatResponse struct {
	Type   string          `json:"type"`
	Modulo string          `json:"modulo,omitempty"`
	Data   json.RawMessage `json:"data"`
}

// Status reports the bridge's health and knowledge counters.
type Status struct {
	Status       string   `json:"status"`
	Precision    *float64 `json:"precision,omitempty"`
	Lugares      *int     `json:"lugares,omitempty"`
	Conocimiento *int     `json:"conocimiento,omitempty"`
}

// Client handles communication with the AI bridge.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new bridge client. Chat calls go through an LLM, so
// the timeout is generous.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Chat sends a user message to the bridge. On any failure it returns an
// error-typed response rather than an error, matching the bridge contract.
func (c *Client) Chat(ctx context.Context, message string) ChatResponse {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return errorResponse(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewBuffer(payload))
	if err != nil {
		return errorResponse(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errorResponse("error de conexión con el agente IA")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResponse(err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return errorResponse(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	var chat ChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return errorResponse("respuesta inválida del agente IA")
	}
	return chat
}

// GetStatus fetches the bridge status, reporting offline when unreachable.
func (c *Client) GetStatus(ctx context.Context) Status {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/estado", nil)
	if err != nil {
		return Status{Status: "offline"}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Status{Status: "offline"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Status{Status: "offline"}
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Status{Status: "offline"}
	}
	return status
}

func errorResponse(message string) ChatResponse {
	data, _ := json.Marshal(message)
	return ChatResponse{Type: "error", Data: data}
}
