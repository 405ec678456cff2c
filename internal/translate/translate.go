// Package translate runs subtitle text through an external translation
// service in batches, with per-text retry and graceful fallback.
package translate

import (
	"context"
	"fmt"
)

// Translator is the interface to a text translation service. A single call
// translates one text; any transient or permanent fault is reported as a
// *ServiceError and callers do not distinguish between causes.
type Translator interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error)
}

// Provider identifies a translation backend.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderOpenAI Provider = "openai"
)

// NewTranslator creates a translator for the configured provider.
// apiKey is only required for providers that need one.
func NewTranslator(provider Provider, apiKey string) (Translator, error) {
	switch provider {
	case ProviderGoogle, "":
		return NewGoogleTranslator(), nil
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAITranslator(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", provider)
	}
}
