// Package renderer writes translated fragments into a new PDF, one paragraph
// per fragment, with an embedded TrueType font that covers the target script.
package renderer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"

	"github.com/valpere/pdftran/internal"
)

var ErrRender = errors.New("render failed")

const (
	// Margin is applied on every side of a US Letter page, in points.
	Margin = 72.0

	// HeadingBump is added to the source size of bold fragments.
	HeadingBump = 2.0

	leadingFactor = 1.2
	headingBefore = 6.0
	headingAfter  = 3.0

	fontFamily = "body"
)

type StyleName string

const (
	StyleNormal  StyleName = "normal"
	StyleHeading StyleName = "heading"
)

// Style is the paragraph style of one fragment. Values are built per
// fragment and never shared or mutated.
type Style struct {
	Name        StyleName
	Bold        bool
	Size        float64
	Leading     float64
	SpaceBefore float64
	SpaceAfter  float64
}

func (s Style) fontStyle() string {
	if s.Bold {
		return "B"
	}
	return ""
}

// StyleFor returns the style a fragment is rendered with.
func StyleFor(f internal.Fragment) Style {
	size := f.FontSize
	if size <= 0 {
		size = internal.DefaultFontSize
	}

	if !f.Bold {
		return Style{
			Name:    StyleNormal,
			Size:    size,
			Leading: size * leadingFactor,
		}
	}

	size += HeadingBump
	return Style{
		Name:        StyleHeading,
		Bold:        true,
		Size:        size,
		Leading:     size * leadingFactor,
		SpaceBefore: headingBefore,
		SpaceAfter:  headingAfter,
	}
}

type Paragraph struct {
	Text  string
	Style Style
}

// Layout maps fragments to paragraphs one to one, keeping their order.
func Layout(fragments []internal.Fragment) []Paragraph {
	paragraphs := make([]Paragraph, len(fragments))
	for i, f := range fragments {
		paragraphs[i] = Paragraph{Text: f.Text, Style: StyleFor(f)}
	}
	return paragraphs
}

type Output struct {
	Path       string
	Paragraphs int
	Pages      int
}

type Renderer struct {
	regular *Font
	bold    *Font
	log     logrus.FieldLogger
}

type Option func(*Renderer)

// WithBoldFont sets the face used for heading paragraphs. Without it the
// regular face is used for both styles.
func WithBoldFont(f *Font) Option {
	return func(r *Renderer) {
		if f != nil {
			r.bold = f
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

func New(regular *Font, opts ...Option) *Renderer {
	r := &Renderer{
		regular: regular,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.bold == nil {
		r.bold = r.regular
	}
	return r
}

// Render writes fragments to outputPath, replacing any existing file, and
// checks the result with pdfcpu.
func (r *Renderer) Render(ctx context.Context, fragments []internal.Fragment, outputPath string) (*Output, error) {
	if r.regular == nil {
		return nil, fmt.Errorf("%w: no font loaded", ErrRender)
	}

	paragraphs := Layout(fragments)

	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(Margin, Margin, Margin)
	doc.SetAutoPageBreak(true, Margin)
	doc.AddUTF8FontFromBytes(fontFamily, "", r.regular.data)
	doc.AddUTF8FontFromBytes(fontFamily, "B", r.bold.data)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: registering font %s: %v", ErrRender, r.regular.Family, err)
	}

	doc.AddPage()
	for i, p := range paragraphs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if p.Style.SpaceBefore > 0 && doc.GetY() > Margin {
			doc.Ln(p.Style.SpaceBefore)
		}
		doc.SetFont(fontFamily, p.Style.fontStyle(), p.Style.Size)
		doc.MultiCell(0, p.Style.Leading, p.Text, "", "L", false)
		if p.Style.SpaceAfter > 0 {
			doc.Ln(p.Style.SpaceAfter)
		}

		if err := doc.Error(); err != nil {
			return nil, fmt.Errorf("%w: paragraph %d: %v", ErrRender, i+1, err)
		}
	}

	if err := doc.OutputFileAndClose(outputPath); err != nil {
		return nil, fmt.Errorf("%w: writing %s: %v", ErrRender, outputPath, err)
	}

	pages, err := verify(outputPath)
	if err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"output":     outputPath,
		"paragraphs": len(paragraphs),
		"pages":      pages,
	}).Debug("rendered document")

	return &Output{Path: outputPath, Paragraphs: len(paragraphs), Pages: pages}, nil
}

func verify(path string) (int, error) {
	if err := api.ValidateFile(path, nil); err != nil {
		return 0, fmt.Errorf("%w: %s failed validation: %v", ErrRender, path, err)
	}

	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: reading back %s: %v", ErrRender, path, err)
	}
	return pdfCtx.PageCount, nil
}
