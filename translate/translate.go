//go:generate go run go.uber.org/mock/mockgen -source=translate.go -destination=../mocks/mock_translator.go -package=mocks
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"babblebridge/errors"
	"babblebridge/lang"
)

// ITranslator is the translation capability consumed by the fan-out
// engine. Implementations are stateless from the caller's perspective.
type ITranslator interface {
	Translate(ctx context.Context, text string, source, target lang.Code) (string, error)
}

const defaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

// GoogleTranslator calls the Google Cloud Translation v2 REST API.
type GoogleTranslator struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      *slog.Logger
}

func NewGoogleTranslator(apiKey string, timeout time.Duration, log *slog.Logger) *GoogleTranslator {
	return &GoogleTranslator{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// WithEndpoint overrides the API endpoint. Used by tests to point the
// client at a local server.
func (t *GoogleTranslator) WithEndpoint(endpoint string) *GoogleTranslator {
	t.endpoint = endpoint
	return t
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate returns text converted from source to target.
// Identical canonical codes short-circuit without any network call, so
// identity translation is exact and free.
func (t *GoogleTranslator) Translate(ctx context.Context, text string, source, target lang.Code) (string, error) {
	if source == target {
		return text, nil
	}

	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: string(source),
		Target: string(target),
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTranslationFailed, err)
	}

	endpoint := t.endpoint + "?key=" + url.QueryEscape(t.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTranslationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTranslationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		t.log.Warn("Translation API refused the call",
			"status", resp.StatusCode,
			"source", source,
			"target", target)
		return "", fmt.Errorf("%w: status %d: %s", errors.ErrTranslationFailed, resp.StatusCode, payload)
	}

	var parsed translateResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTranslationFailed, err)
	}
	if len(parsed.Data.Translations) == 0 {
		return "", fmt.Errorf("%w: empty translation list", errors.ErrTranslationFailed)
	}
	return parsed.Data.Translations[0].TranslatedText, nil
}
