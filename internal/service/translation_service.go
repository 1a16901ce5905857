package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/metrics"
)

type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Languages offered by the site's translation widget.
var Languages = map[string]string{
	"en":  "English",
	"hi":  "Hindi",
	"bn":  "Bengali",
	"or":  "Odia",
	"ur":  "Urdu",
	"sat": "Santali",
	"ta":  "Tamil",
	"te":  "Telugu",
	"mr":  "Marathi",
	"gu":  "Gujarati",
	"pa":  "Punjabi",
}

const maxTranslateRunes = 5000

type TranslateInput struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type Translation struct {
	TranslatedText string `json:"translated_text"`
	Source         string `json:"source"`
	Target         string `json:"target"`
	Cached         bool   `json:"cached"`
}

// TranslationService validates requests and caches upstream translations.
type TranslationService struct {
	upstream Translator
	cache    Cache
	ttl      time.Duration
}

func NewTranslationService(upstream Translator, cache Cache, ttl time.Duration) *TranslationService {
	return &TranslationService{upstream: upstream, cache: orNoCache(cache), ttl: ttl}
}

func translationKey(source, target, text string) string {
	sum := sha256.Sum256([]byte(source + "|" + target + "|" + text))
	return "translate:" + hex.EncodeToString(sum[:])
}

func (s *TranslationService) Translate(ctx context.Context, in TranslateInput) (*Translation, error) {
	in.Source = strings.ToLower(strings.TrimSpace(in.Source))
	in.Target = strings.ToLower(strings.TrimSpace(in.Target))
	if in.Source == "" {
		in.Source = "auto"
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, apperr.Invalid("text", "is required")
	}
	if utf8.RuneCountInString(in.Text) > maxTranslateRunes {
		return nil, apperr.Invalid("text", "must not exceed %d characters", maxTranslateRunes)
	}
	if _, ok := Languages[in.Target]; !ok {
		return nil, apperr.Invalid("target", "unsupported language %q", in.Target)
	}
	if _, ok := Languages[in.Source]; !ok && in.Source != "auto" {
		return nil, apperr.Invalid("source", "unsupported language %q", in.Source)
	}
	if in.Source == in.Target {
		return nil, apperr.Invalid("target", "must differ from source")
	}

	key := translationKey(in.Source, in.Target, in.Text)
	if raw, ok := s.cache.Get(ctx, key); ok {
		metrics.TranslationRequests.WithLabelValues("cache").Inc()
		return &Translation{TranslatedText: string(raw), Source: in.Source, Target: in.Target, Cached: true}, nil
	}

	out, err := s.upstream.Translate(ctx, in.Text, in.Source, in.Target)
	if err != nil {
		metrics.TranslationRequests.WithLabelValues("error").Inc()
		if !errors.Is(err, apperr.ErrUpstream) {
			err = errors.Join(err, apperr.ErrUpstream)
		}
		return nil, err
	}
	metrics.TranslationRequests.WithLabelValues("upstream").Inc()
	s.cache.Set(ctx, key, []byte(out), s.ttl)
	return &Translation{TranslatedText: out, Source: in.Source, Target: in.Target}, nil
}
