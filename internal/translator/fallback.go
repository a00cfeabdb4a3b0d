package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single service call.
const DefaultTimeout = 30 * time.Second

// Outcome tells how a fragment's text was obtained.
type Outcome int

const (
	OutcomeTranslated Outcome = iota
	OutcomeCached
	OutcomeGlossary
	OutcomeSkipped
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTranslated:
		return "translated"
	case OutcomeCached:
		return "cached"
	case OutcomeGlossary:
		return "glossary"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Result is the outcome of translating one fragment. Text is always usable:
// on failure it is the original text and Err says why.
type Result struct {
	Text    string
	Outcome Outcome
	Service string
	Err     error
}

// Failed reports whether the original text was kept because translation failed.
func (r Result) Failed() bool {
	return r.Outcome == OutcomeFallback
}

// Memory is a translation memory consulted before any service is called.
type Memory interface {
	GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang string) (string, bool, error)
	SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, translatedText, serviceUsed string) error
}

// Validator accepts or rejects a service's answer for the target language.
type Validator interface {
	IsValid(translatedText, targetLang string) (bool, error)
}

// Fallback translates one fragment at a time and never fails: glossary terms
// and remembered translations are used first, then each service in order
// until one succeeds, and when none does the original text is returned.
type Fallback struct {
	services []TranslationService
	cfg      ServiceConfig
	memory   Memory
	glossary map[string]string
	validate Validator
	timeout  time.Duration
	log      logrus.FieldLogger
}

type FallbackOption func(*Fallback)

func WithServiceConfig(cfg ServiceConfig) FallbackOption {
	return func(f *Fallback) {
		f.cfg = cfg
	}
}

func WithMemory(m Memory) FallbackOption {
	return func(f *Fallback) {
		f.memory = m
	}
}

// WithGlossary sets source-term to target-term pairs that bypass the services.
func WithGlossary(terms map[string]string) FallbackOption {
	return func(f *Fallback) {
		f.glossary = terms
	}
}

// WithValidator makes a service answer in the wrong language count as a
// failure, so the next service is tried.
func WithValidator(v Validator) FallbackOption {
	return func(f *Fallback) {
		f.validate = v
	}
}

func WithTimeout(d time.Duration) FallbackOption {
	return func(f *Fallback) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithLogger(log logrus.FieldLogger) FallbackOption {
	return func(f *Fallback) {
		if log != nil {
			f.log = log
		}
	}
}

func NewFallback(services []TranslationService, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		services: services,
		timeout:  DefaultTimeout,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Translate returns the translation of text from sourceLang (or "auto") to
// targetLang. Errors and panics from services are absorbed into the result.
func (f *Fallback) Translate(ctx context.Context, text, sourceLang, targetLang string) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = f.fallback(text, fmt.Errorf("translation panicked: %v", rec))
		}
	}()

	if !hasLetter(text) {
		return Result{Text: text, Outcome: OutcomeSkipped}
	}

	if translated, ok := f.lookupGlossary(text); ok {
		return Result{Text: translated, Outcome: OutcomeGlossary}
	}

	if f.memory != nil {
		cached, found, err := f.memory.GetCachedTranslation(ctx, text, sourceLang, targetLang)
		if err != nil {
			f.log.WithError(err).WithField("text", text).Debug("translation memory lookup failed")
		} else if found {
			return Result{Text: cached, Outcome: OutcomeCached}
		}
	}

	if len(f.services) == 0 {
		return f.fallback(text, errors.New("no translation services configured"))
	}

	req := TranslateRequest{
		Text:       text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	}

	var errs []error
	for _, svc := range f.services {
		translated, err := f.call(ctx, svc, req)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", svc.Name(), err))
			continue
		}

		if f.memory != nil {
			if err := f.memory.SaveToMemory(ctx, text, sourceLang, targetLang, translated, svc.Name()); err != nil {
				f.log.WithError(err).WithField("text", text).Debug("failed to save translation memory")
			}
		}

		return Result{Text: translated, Outcome: OutcomeTranslated, Service: svc.Name()}
	}

	return f.fallback(text, errors.Join(errs...))
}

func (f *Fallback) call(ctx context.Context, svc TranslationService, req TranslateRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	res, err := svc.Translate(callCtx, f.cfg, req)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", errors.New("no result returned")
	}
	if res.Error != "" {
		return "", errors.New(res.Error)
	}

	translated := strings.TrimSpace(res.TranslatedText)
	if translated == "" {
		return "", errors.New("empty translation")
	}

	if f.validate != nil {
		if ok, err := f.validate.IsValid(translated, req.TargetLang); !ok {
			if err == nil {
				err = errors.New("wrong language")
			}
			return "", fmt.Errorf("rejected %q: %w", translated, err)
		}
	}
	return translated, nil
}

func (f *Fallback) fallback(text string, err error) Result {
	f.log.WithError(err).WithField("text", text).Warn("translation failed, keeping original text")
	return Result{Text: text, Outcome: OutcomeFallback, Err: err}
}

// lookupGlossary matches text, or text stripped of surrounding punctuation,
// against the glossary. Stripped punctuation is put back around the term.
func (f *Fallback) lookupGlossary(text string) (string, bool) {
	if len(f.glossary) == 0 {
		return "", false
	}
	if term, ok := f.glossary[text]; ok {
		return term, true
	}

	core := strings.TrimFunc(text, unicode.IsPunct)
	if core == "" || core == text {
		return "", false
	}
	term, ok := f.glossary[core]
	if !ok {
		return "", false
	}

	start := strings.Index(text, core)
	return text[:start] + term + text[start+len(core):], true
}

func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
