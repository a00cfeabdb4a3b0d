// Package validator rejects translations that are not written in the target
// language. Single words are checked by script; longer text is also run
// through the language detector.
package validator

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/language"

	"github.com/valpere/pdftran/internal/detector"
)

// minDetectionLength is the rune count below which language detection is
// unreliable and only the script is checked.
const minDetectionLength = 20

// scripts maps ISO 15924 codes to the Unicode tables a translation into that
// script is expected to use.
var scripts = map[string][]*unicode.RangeTable{
	"Arab": {unicode.Arabic},
	"Armn": {unicode.Armenian},
	"Beng": {unicode.Bengali},
	"Cyrl": {unicode.Cyrillic},
	"Deva": {unicode.Devanagari},
	"Ethi": {unicode.Ethiopic},
	"Geor": {unicode.Georgian},
	"Grek": {unicode.Greek},
	"Gujr": {unicode.Gujarati},
	"Guru": {unicode.Gurmukhi},
	"Hans": {unicode.Han},
	"Hant": {unicode.Han},
	"Hebr": {unicode.Hebrew},
	"Jpan": {unicode.Han, unicode.Hiragana, unicode.Katakana},
	"Khmr": {unicode.Khmer},
	"Knda": {unicode.Kannada},
	"Kore": {unicode.Hangul, unicode.Han},
	"Laoo": {unicode.Lao},
	"Latn": {unicode.Latin},
	"Mlym": {unicode.Malayalam},
	"Mymr": {unicode.Myanmar},
	"Orya": {unicode.Oriya},
	"Sinh": {unicode.Sinhala},
	"Taml": {unicode.Tamil},
	"Telu": {unicode.Telugu},
	"Thai": {unicode.Thai},
	"Tibt": {unicode.Tibetan},
}

type Validator struct {
	once sync.Once
	det  *detector.Detector
}

type Option func(*Validator)

// WithDetector shares an already built detector.
func WithDetector(d *detector.Detector) Option {
	return func(v *Validator) {
		v.det = d
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// IsValid returns true when translatedText appears to be written in targetLang.
//
// Text with no letters, unknown target languages and text whose language
// cannot be determined pass. The returned error says what was expected.
func (v *Validator) IsValid(translatedText, targetLang string) (bool, error) {
	if targetLang == "" {
		return true, nil
	}

	text := strings.TrimSpace(translatedText)
	if text == "" {
		return false, fmt.Errorf("translation is empty")
	}

	script, ok := ScriptOf(targetLang)
	if ok && !usesScript(text, scripts[script]) {
		return false, fmt.Errorf("expected %s text for %s", script, targetLang)
	}

	if len([]rune(text)) < minDetectionLength || !detector.Supports(targetLang) {
		return true, nil
	}

	detected, ok := v.detector().DetectISO(text)
	if !ok {
		return true, nil
	}
	if !strings.EqualFold(detected, targetLang) {
		return false, fmt.Errorf("expected %s but detected %s", targetLang, detected)
	}
	return true, nil
}

func (v *Validator) detector() *detector.Detector {
	v.once.Do(func() {
		if v.det == nil {
			v.det = detector.New()
		}
	})
	return v.det
}

// ScriptOf returns the ISO 15924 code of the script targetLang is usually
// written in, when it is one the validator knows.
func ScriptOf(targetLang string) (string, bool) {
	tag, err := language.Parse(targetLang)
	if err != nil {
		return "", false
	}
	script, conf := tag.Script()
	if conf == language.No {
		return "", false
	}
	if _, ok := scripts[script.String()]; !ok {
		return "", false
	}
	return script.String(), true
}

// usesScript reports whether any letter of text belongs to one of tables.
// Text without letters passes.
func usesScript(text string, tables []*unicode.RangeTable) bool {
	hasLetter := false
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if unicode.In(r, tables...) {
			return true
		}
	}
	return !hasLetter
}
