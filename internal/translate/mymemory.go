package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lull/pkg/util"
)

const DefaultMyMemoryEndpoint = "https://api.mymemory.translated.net/get"

// MyMemory is the secondary provider: a different service with a GET
// protocol, used after every LibreTranslate endpoint failed.
type MyMemory struct {
	endpoint string
	client   *http.Client
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// The service sends the status as a number or as a quoted string.
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
}

func NewMyMemory(endpoint string, client *http.Client) *MyMemory {
	if endpoint == "" {
		endpoint = DefaultMyMemoryEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &MyMemory{endpoint: endpoint, client: client}
}

func (m *MyMemory) Name() string {
	return "mymemory"
}

func (m *MyMemory) Translate(ctx context.Context, req Request) (string, error) {
	u, err := url.Parse(m.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", req.Text)
	q.Set("langpair", req.Source+"|"+req.Target)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(httpReq)
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

	var out myMemoryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	status, err := parseStatus(out.ResponseStatus)
	if err != nil {
		return "", fmt.Errorf("decode response status: %w", err)
	}
	if status != http.StatusOK {
		return "", &StatusError{Code: status, Body: out.ResponseDetails}
	}
	if strings.TrimSpace(out.ResponseData.TranslatedText) == "" {
		return "", ErrEmptyResponse
	}

	return out.ResponseData.TranslatedText, nil
}

func parseStatus(raw json.RawMessage) (int, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return http.StatusOK, nil
	}
	return strconv.Atoi(s)
}
