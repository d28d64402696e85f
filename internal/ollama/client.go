package ollama

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
)

// Options carries the generation controls sent with every call.
type Options struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
	NumGPU      int     `json:"num_gpu"`
	NumThread   int     `json:"num_thread"`
	TopK        int     `json:"top_k"`
	TopP        float64 `json:"top_p"`
}

type generateRequest struct {
	Model   string  `json:"model"`
	Stream  bool    `json:"stream"`
	Prompt  string  `json:"prompt"`
	Options Options `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Client issues blocking, synchronous generation calls against one supervised
// server endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// LocalURL is the endpoint of a supervised server on the given port.
func LocalURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d", port)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 300 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Generate sends one prompt and returns the response text. Any non-200
// status or transport error is a recoverable failure for that single call.
func (c *Client) Generate(ctx context.Context, model, prompt string, opts Options) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:   model,
		Stream:  false,
		Prompt:  prompt,
		Options: opts,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		if len(body) > 0 {
			return "", errors.New(resp.Status + ": " + strings.TrimSpace(string(body)))
		}

		return "", errors.New(resp.Status)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	return out.Response, nil
}
