package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"srt-translator/internal/httpclient"
)

const googleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator uses the free Google web translation endpoint. It needs
// no API key, which also means the service may throttle or block aggressive
// callers; the pipeline's pacing exists for exactly that reason.
type GoogleTranslator struct {
	client  *http.Client
	baseURL string
}

// NewGoogleTranslator creates a Google translator with a pooled HTTP client.
func NewGoogleTranslator() *GoogleTranslator {
	return &GoogleTranslator{
		client:  httpclient.NewDefault(),
		baseURL: googleEndpoint,
	}
}

// Translate translates a single text string. The source language defaults
// to automatic detection when empty.
func (g *GoogleTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if sourceLang == "" {
		sourceLang = "auto"
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", &ServiceError{Provider: ProviderGoogle, Err: err}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &ServiceError{Provider: ProviderGoogle, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Provider: ProviderGoogle, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ServiceError{
			Provider: ProviderGoogle,
			Err:      fmt.Errorf("unexpected status %s: %s", resp.Status, truncate(string(body), 200)),
		}
	}

	translated, err := parseGoogleResponse(body)
	if err != nil {
		return "", &ServiceError{Provider: ProviderGoogle, Err: err}
	}
	return translated, nil
}

// parseGoogleResponse extracts the translated text from the endpoint's
// positional JSON payload: the first element is a list of segments whose
// first field is the translated chunk.
func parseGoogleResponse(body []byte) (string, error) {
	var payload []interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty response")
	}

	segments, ok := payload[0].([]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var builder strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]interface{})
		if !ok || len(parts) == 0 {
			continue
		}
		if chunk, ok := parts[0].(string); ok {
			builder.WriteString(chunk)
		}
	}

	result := builder.String()
	if result == "" {
		return "", fmt.Errorf("no translation in response")
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
