// Package google wraps the Google APIs the service calls: Cloud Translation
// and the OAuth2 userinfo endpoint used for sign-in.
package google

import (
	"context"
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

const translateTimeout = 8 * time.Second

// ErrTranslateDisabled is returned when no API key was configured.
var ErrTranslateDisabled = errors.New("translation is not configured")

type Translator struct {
	svc *translate.Service
}

// NewTranslator returns a translator. An empty apiKey yields a translator
// that always falls back to the input text.
func NewTranslator(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Translator, error) {
	if apiKey == "" {
		return &Translator{}, nil
	}
	svc, err := translate.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, errors.Wrap(err, "create translate service")
	}
	return &Translator{svc: svc}, nil
}

// Translate always returns a usable response. When the provider is
// unavailable the original text comes back with Fallback set, and the
// returned error says why.
func (t *Translator) Translate(ctx context.Context, req model.TranslateRequest) (model.TranslateResponse, error) {
	fallback := model.TranslateResponse{Text: req.Text, SourceLanguage: req.Source, Target: req.Target, Fallback: true}
	if t.svc == nil {
		return fallback, ErrTranslateDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, translateTimeout)
	defer cancel()

	call := t.svc.Translations.List([]string{req.Text}, req.Target).Format("text").Context(ctx)
	if req.Source != "" {
		call = call.Source(req.Source)
	}
	resp, err := call.Do()
	if err != nil {
		return fallback, errors.Wrap(err, "translate")
	}
	if len(resp.Translations) == 0 {
		return fallback, errors.New("translate: empty response")
	}

	tr := resp.Translations[0]
	source := req.Source
	if source == "" {
		source = strings.ToLower(tr.DetectedSourceLanguage)
	}
	return model.TranslateResponse{Text: tr.TranslatedText, SourceLanguage: source, Target: req.Target}, nil
}
