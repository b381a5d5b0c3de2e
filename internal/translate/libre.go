package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lull/pkg/util"
)

// DefaultEndpoint is the public LibreTranslate instance used when nothing is configured.
const DefaultEndpoint = "https://libretranslate.de/translate"

const maxBody = 1 << 20

// StatusError is a non-2xx answer from a provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// LibreTranslate calls one LibreTranslate-compatible /translate endpoint.
type LibreTranslate struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// NewLibreTranslate accepts either a full /translate URL or a bare base URL.
// A nil client means http.DefaultClient.
func NewLibreTranslate(endpoint, apiKey string, client *http.Client) *LibreTranslate {
	if client == nil {
		client = http.DefaultClient
	}
	return &LibreTranslate{
		endpoint: normalizeEndpoint(endpoint),
		apiKey:   apiKey,
		client:   client,
	}
}

// LibreTranslateEndpoints builds one provider per URL, keeping order.
func LibreTranslateEndpoints(endpoints []string, apiKey string, client *http.Client) []Provider {
	out := make([]Provider, 0, len(endpoints))
	for _, ep := range endpoints {
		if strings.TrimSpace(ep) == "" {
			continue
		}
		out = append(out, NewLibreTranslate(ep, apiKey, client))
	}
	return out
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/translate"
	}
	return u.String()
}

func (l *LibreTranslate) Name() string {
	return l.endpoint
}

func (l *LibreTranslate) Translate(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(libreRequest{
		Q:      req.Text,
		Source: req.Source,
		Target: req.Target,
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Body: util.Truncate(strings.TrimSpace(string(body)), 200)}
	}

	var out libreResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(out.TranslatedText) == "" {
		if out.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrEmptyResponse, out.Error)
		}
		return "", ErrEmptyResponse
	}

	return out.TranslatedText, nil
}
