// Package extractor reads a PDF and turns its glyph runs into an ordered list
// of word fragments carrying the font size and weight each word was set in.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"github.com/valpere/pdftran/internal"
)

// ErrExtract is wrapped by every error caused by an unreadable or malformed
// source document.
var ErrExtract = errors.New("extraction failed")

const (
	// DefaultXTolerance and DefaultYTolerance are in points.
	DefaultXTolerance = 3.0
	DefaultYTolerance = 3.0

	boldMarker = "bold"
)

// Extractor groups the glyphs of every page into words.
type Extractor struct {
	xTolerance float64
	yTolerance float64
	log        logrus.FieldLogger
}

type Option func(*Extractor)

// WithTolerance sets the horizontal gap and vertical shift, in points, beyond
// which two glyphs belong to different words.
func WithTolerance(x, y float64) Option {
	return func(e *Extractor) {
		if x > 0 {
			e.xTolerance = x
		}
		if y > 0 {
			e.yTolerance = y
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		xTolerance: DefaultXTolerance,
		yTolerance: DefaultYTolerance,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns one fragment per word of the document at path, in page
// order and then reading order within the page. Any failure to open or parse
// the document aborts extraction; no partial list is returned.
func (e *Extractor) Extract(ctx context.Context, path string) (fragments []internal.Fragment, err error) {
	defer func() {
		// ledongthuc/pdf panics on some malformed objects.
		if rec := recover(); rec != nil {
			fragments = nil
			err = fmt.Errorf("%w: %s: %v", ErrExtract, path, rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrExtract, path, err)
	}
	defer f.Close()

	total := r.NumPage()
	for pageNum := 1; pageNum <= total; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		words := orderWords(groupWords(page.Content().Text, e.xTolerance, e.yTolerance), e.yTolerance)

		before := len(fragments)
		for _, w := range words {
			text := Clean(w.text)
			if text == "" {
				continue
			}
			fragments = append(fragments, internal.Fragment{
				Text:     text,
				FontSize: w.size,
				Bold:     w.bold,
				Page:     pageNum,
				Font:     w.font,
			})
		}

		e.log.WithFields(logrus.Fields{
			"page":  pageNum,
			"words": len(fragments) - before,
		}).Debug("page extracted")
	}

	return fragments, nil
}

// PageCount returns the number of pages of the document at path.
func PageCount(path string) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", ErrExtract, path, rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %w", ErrExtract, path, err)
	}
	defer f.Close()

	return r.NumPage(), nil
}

// word is a run of glyphs set close enough together to read as one token.
type word struct {
	text string
	font string
	size float64
	bold bool
	x    float64
	y    float64
	line int

	// right edge of the last glyph, used to measure the gap to the next one
	end   float64
	lastY float64
}

// groupWords splits a page's glyph stream into words. A word ends at a
// whitespace glyph, at a vertical shift greater than yTol, or where the next
// glyph starts more than xTol away from the previous glyph's right edge, in
// either direction.
func groupWords(glyphs []pdf.Text, xTol, yTol float64) []word {
	var (
		words []word
		cur   *word
		sb    strings.Builder
	)

	flush := func() {
		if cur == nil {
			return
		}
		cur.text = sb.String()
		words = append(words, *cur)
		cur = nil
		sb.Reset()
	}

	for _, g := range glyphs {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			continue
		}

		if cur != nil {
			gap := g.X - cur.end
			if unicode.IsSpace(firstRune(g.S)) || abs(g.Y-cur.lastY) > yTol || gap > xTol || gap < -xTol {
				flush()
			}
		}

		// Ligatures and some encodings put several characters, occasionally
		// including a space, into one glyph string.
		for i, part := range strings.FieldsFunc(g.S, unicode.IsSpace) {
			if i > 0 {
				flush()
			}
			if cur == nil {
				cur = newWord(g)
			}
			sb.WriteString(part)
			if isBoldFont(g.Font) {
				cur.bold = true
			}
			cur.end = g.X + g.W
			cur.lastY = g.Y
		}

		if unicode.IsSpace(lastRune(g.S)) {
			flush()
		}
	}
	flush()

	return words
}

func newWord(g pdf.Text) *word {
	size := g.FontSize
	if size <= 0 {
		size = internal.DefaultFontSize
	}
	return &word{
		font: g.Font,
		size: size,
		x:    g.X,
		y:    g.Y,
	}
}

// orderWords sorts words into lines, top of the page first, and each line
// left to right. Words whose baselines lie within yTol of a line's first word
// share that line. The sort is stable, so words at the same position keep
// their content-stream order.
func orderWords(words []word, yTol float64) []word {
	if len(words) < 2 {
		return words
	}

	ordered := make([]word, len(words))
	copy(ordered, words)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].y > ordered[j].y
	})

	line := 0
	anchor := ordered[0].y
	for i := range ordered {
		if anchor-ordered[i].y > yTol {
			line++
			anchor = ordered[i].y
		}
		ordered[i].line = line
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].line != ordered[j].line {
			return ordered[i].line < ordered[j].line
		}
		return ordered[i].x < ordered[j].x
	})

	return ordered
}

func isBoldFont(name string) bool {
	return strings.Contains(strings.ToLower(name), boldMarker)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	r := rune(0)
	for _, c := range s {
		r = c
	}
	return r
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
