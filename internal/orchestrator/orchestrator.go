// Package orchestrator runs the extract, translate and render stages of a
// document translation once, in order.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valpere/pdftran/internal"
	"github.com/valpere/pdftran/internal/renderer"
	"github.com/valpere/pdftran/internal/translator"
)

var ErrInputNotFound = errors.New("input file not found")

// DefaultDetectSample is the number of leading fragments used to detect the
// source language.
const DefaultDetectSample = 200

type Extractor interface {
	Extract(ctx context.Context, path string) ([]internal.Fragment, error)
}

type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) translator.Result
}

type Renderer interface {
	Render(ctx context.Context, fragments []internal.Fragment, outputPath string) (*renderer.Output, error)
}

type Detector interface {
	DetectISO(text string) (string, bool)
}

// History records runs. Failures to record are logged and otherwise ignored.
type History interface {
	CreateRun(ctx context.Context, run internal.TranslationRun) (string, error)
	CompleteRun(ctx context.Context, run internal.TranslationRun) error
}

type Config struct {
	SourceLang   string
	TargetLang   string
	DetectSample int
}

type Report struct {
	RunID      string
	InputFile  string
	OutputFile string
	SourceLang string
	TargetLang string
	Fragments  int
	Counts     internal.OutcomeCounts
	Pages      int
	Duration   time.Duration
}

type Orchestrator struct {
	extractor  Extractor
	translator Translator
	renderer   Renderer
	config     Config
	detector   Detector
	history    History
	progress   io.Writer
	log        logrus.FieldLogger
}

type Option func(*Orchestrator)

// WithDetector enables source detection when the source language is "auto".
func WithDetector(d Detector) Option {
	return func(o *Orchestrator) {
		o.detector = d
	}
}

func WithHistory(h History) Option {
	return func(o *Orchestrator) {
		o.history = h
	}
}

// WithProgress sets where human-readable progress lines are written.
func WithProgress(w io.Writer) Option {
	return func(o *Orchestrator) {
		if w != nil {
			o.progress = w
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

func New(ext Extractor, tr Translator, rd Renderer, config Config, opts ...Option) *Orchestrator {
	if config.SourceLang == "" {
		config.SourceLang = translator.AutoDetect
	}
	if config.DetectSample <= 0 {
		config.DetectSample = DefaultDetectSample
	}

	o := &Orchestrator{
		extractor:  ext,
		translator: tr,
		renderer:   rd,
		config:     config,
		progress:   io.Discard,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run translates the document at inputPath into outputPath. Translation
// failures never fail the run: affected fragments keep their original text.
func (o *Orchestrator) Run(ctx context.Context, inputPath, outputPath string) (*Report, error) {
	start := time.Now()

	if _, err := os.Stat(inputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
		}
		return nil, fmt.Errorf("checking input: %w", err)
	}

	report := &Report{
		InputFile:  inputPath,
		OutputFile: outputPath,
		SourceLang: o.config.SourceLang,
		TargetLang: o.config.TargetLang,
	}
	o.startRun(ctx, report, start)

	fragments, err := o.extract(ctx, inputPath)
	if err != nil {
		o.finishRun(ctx, report, err)
		return nil, err
	}
	report.Fragments = len(fragments)
	report.SourceLang = o.resolveSource(fragments)

	translated, err := o.translate(ctx, fragments, report)
	if err != nil {
		o.finishRun(ctx, report, err)
		return nil, err
	}

	fmt.Fprintf(o.progress, "Rendering %s...\n", outputPath)
	out, err := o.renderer.Render(ctx, translated, outputPath)
	if err != nil {
		err = fmt.Errorf("rendering: %w", err)
		o.finishRun(ctx, report, err)
		return nil, err
	}
	report.Pages = out.Pages
	report.Duration = time.Since(start)

	o.finishRun(ctx, report, nil)

	fmt.Fprintf(o.progress, "Done: %d fragments, %d translated, %d kept original, %d pages in %s\n",
		report.Fragments, report.Counts.Translated+report.Counts.Cached+report.Counts.Glossary,
		report.Counts.Fallback, report.Pages, report.Duration.Round(time.Millisecond))

	return report, nil
}

func (o *Orchestrator) extract(ctx context.Context, inputPath string) ([]internal.Fragment, error) {
	fmt.Fprintf(o.progress, "Extracting text from %s...\n", inputPath)

	fragments, err := o.extractor.Extract(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("extracting: %w", err)
	}

	fmt.Fprintf(o.progress, "Extracted %d fragments\n", len(fragments))
	return fragments, nil
}

// resolveSource pins an "auto" source language to the detected language of
// the document when a detector is configured and succeeds.
func (o *Orchestrator) resolveSource(fragments []internal.Fragment) string {
	source := o.config.SourceLang
	if source != translator.AutoDetect || o.detector == nil || len(fragments) == 0 {
		return source
	}

	n := min(len(fragments), o.config.DetectSample)
	words := make([]string, n)
	for i := range n {
		words[i] = fragments[i].Text
	}

	code, ok := o.detector.DetectISO(strings.Join(words, " "))
	if !ok {
		o.log.Debug("source language not detected, leaving detection to the services")
		return source
	}

	fmt.Fprintf(o.progress, "Detected source language: %s\n", code)
	o.log.WithField("source_lang", code).Info("detected source language")
	return code
}

func (o *Orchestrator) translate(ctx context.Context, fragments []internal.Fragment, report *Report) ([]internal.Fragment, error) {
	fmt.Fprintf(o.progress, "Translating %d fragments (%s -> %s)...\n",
		len(fragments), report.SourceLang, report.TargetLang)

	translated := make([]internal.Fragment, len(fragments))
	for i, f := range fragments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := o.translator.Translate(ctx, f.Text, report.SourceLang, report.TargetLang)
		translated[i] = f.WithText(res.Text)
		tally(&report.Counts, res.Outcome)

		o.log.WithFields(logrus.Fields{
			"fragment": i + 1,
			"outcome":  res.Outcome.String(),
			"service":  res.Service,
		}).Debug("translated fragment")
	}

	return translated, nil
}

func tally(c *internal.OutcomeCounts, outcome translator.Outcome) {
	switch outcome {
	case translator.OutcomeTranslated:
		c.Translated++
	case translator.OutcomeCached:
		c.Cached++
	case translator.OutcomeGlossary:
		c.Glossary++
	case translator.OutcomeSkipped:
		c.Skipped++
	default:
		c.Fallback++
	}
}

func (o *Orchestrator) startRun(ctx context.Context, report *Report, start time.Time) {
	if o.history == nil {
		return
	}

	id, err := o.history.CreateRun(ctx, internal.TranslationRun{
		InputFile:  report.InputFile,
		OutputFile: report.OutputFile,
		SourceLang: report.SourceLang,
		TargetLang: report.TargetLang,
		Status:     internal.RunRunning,
		StartedAt:  start,
	})
	if err != nil {
		o.log.WithError(err).Warn("failed to record run")
		return
	}
	report.RunID = id
}

func (o *Orchestrator) finishRun(ctx context.Context, report *Report, runErr error) {
	if o.history == nil || report.RunID == "" {
		return
	}

	run := internal.TranslationRun{
		ID:         report.RunID,
		SourceLang: report.SourceLang,
		Status:     internal.RunCompleted,
		Counts:     report.Counts,
		Pages:      report.Pages,
	}
	if runErr != nil {
		run.Status = internal.RunFailed
		run.Error = runErr.Error()
	}

	// the run's own context may already be cancelled
	if err := o.history.CompleteRun(context.WithoutCancel(ctx), run); err != nil {
		o.log.WithError(err).Warn("failed to complete run record")
	}
}
