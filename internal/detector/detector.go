// Package detector guesses the language of document text so that an "auto"
// source language can be pinned before translation starts.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector      lingua.LanguageDetector
	minConfidence float64
}

type Option func(*Detector)

// WithMinConfidence makes DetectISO report no result when the detected
// language scores below c (0..1).
func WithMinConfidence(c float64) Option {
	return func(d *Detector) {
		d.minConfidence = c
	}
}

func New(opts ...Option) *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	d := &Detector{detector: detector}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of the language of text.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	if d.minConfidence > 0 && d.detector.ComputeLanguageConfidence(text, lang) < d.minConfidence {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Supports reports whether code names a language the detector can recognise.
func Supports(code string) bool {
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), code) {
			return true
		}
	}
	return false
}
