/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/pdftran/internal/detector"
	"github.com/valpere/pdftran/internal/extractor"
	"github.com/valpere/pdftran/internal/orchestrator"
	"github.com/valpere/pdftran/internal/renderer"
	"github.com/valpere/pdftran/internal/store"
	"github.com/valpere/pdftran/internal/translator"
	"github.com/valpere/pdftran/internal/validator"
)

type translateOptions struct {
	input    string
	output   string
	font     string
	boldFont string
	source   string
	target   string

	services []string
	timeout  time.Duration
	service  serviceOptions

	dbPath     string
	noCache    bool
	noDetect   bool
	noValidate bool
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a PDF document",
	Long: `Extract the words of a PDF document, translate each one and write a new PDF
with one paragraph per word. Bold words are set as headings.

The font given with --font must cover the target script; it is loaded before
anything else and a missing font stops the command.

Available services (tried in the given order for every word):
  - google      Google Translate (requires credentials)
  - mymemory    MyMemory (free, 5000 chars/day)
  - systran     Systran Translate (requires API key)
  - ollama      Ollama LLM (self-hosted)
  - openrouter  OpenRouter LLM (requires API key)

An answer not written in the target language's script is rejected and the
next service is tried. A word no service could translate keeps its original
text.

Example:
  pdftran translate -i gita.pdf -o gita.bn.pdf -f NotoSansBengali-Regular.ttf -t bn`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTranslate(cmd.Context(), translateOptionsFromConfig(), cmd.OutOrStdout())
	},
}

func translateOptionsFromConfig() translateOptions {
	return translateOptions{
		input:    viper.GetString("input"),
		output:   viper.GetString("output"),
		font:     viper.GetString("font"),
		boldFont: viper.GetString("bold_font"),
		source:   viper.GetString("source"),
		target:   viper.GetString("target"),
		services: viper.GetStringSlice("services"),
		timeout:  viper.GetDuration("timeout"),
		service: serviceOptions{
			credentials:     viper.GetString("credentials"),
			googleAPIKey:    viper.GetString("google_api_key"),
			ollamaURL:       viper.GetString("ollama_url"),
			ollamaModels:    viper.GetStringSlice("ollama_models"),
			openrouterKey:   viper.GetString("openrouter_key"),
			openrouterURL:   viper.GetString("openrouter_url"),
			openrouterModel: viper.GetStringSlice("openrouter_models"),
			systranKey:      viper.GetString("systran_key"),
			mymemoryEmail:   viper.GetString("mymemory_email"),
		},
		dbPath:     viper.GetString("db"),
		noCache:    viper.GetBool("no_cache"),
		noDetect:   viper.GetBool("no_detect"),
		noValidate: viper.GetBool("no_validate"),
	}
}

// runTranslate loads the fonts, checks the input, wires the pipeline and runs
// it once. A missing input file is reported on out and is not an error.
func runTranslate(ctx context.Context, opts translateOptions, out io.Writer) error {
	if opts.input == "" || opts.output == "" || opts.target == "" {
		return fmt.Errorf("--input, --output and --target are required")
	}
	if samePath(opts.input, opts.output) {
		return fmt.Errorf("input file and output file cannot be the same")
	}
	if opts.source == "" {
		opts.source = translator.AutoDetect
	}

	rd, err := loadRenderer(opts.font, opts.boldFont)
	if err != nil {
		return err
	}

	if _, err := os.Stat(opts.input); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "Input file not found: %s\n", opts.input)
		return nil
	}

	services, err := buildServices(opts.services, opts.service)
	if err != nil {
		return err
	}
	defer closeServices(services)

	log := logrus.StandardLogger()

	fallbackOpts := []translator.FallbackOption{
		translator.WithServiceConfig(translator.ServiceConfig{
			Credentials: opts.service.credentials,
			APIKey:      opts.service.googleAPIKey,
		}),
		translator.WithTimeout(opts.timeout),
		translator.WithLogger(log),
	}
	orchOpts := []orchestrator.Option{
		orchestrator.WithProgress(out),
		orchestrator.WithLogger(log),
	}

	var db *store.Store
	if !opts.noCache && opts.dbPath != "" {
		db, err = openStore(opts.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		terms, err := glossaryFor(ctx, db, opts.source, opts.target)
		if err != nil {
			return fmt.Errorf("failed to load glossary: %w", err)
		}
		fallbackOpts = append(fallbackOpts, translator.WithMemory(db), translator.WithGlossary(terms))
		orchOpts = append(orchOpts, orchestrator.WithHistory(db))
	}

	var det *detector.Detector
	if opts.source == translator.AutoDetect && !opts.noDetect {
		det = detector.New()
		orchOpts = append(orchOpts, orchestrator.WithDetector(det))
	}
	if !opts.noValidate {
		var vOpts []validator.Option
		if det != nil {
			vOpts = append(vOpts, validator.WithDetector(det))
		}
		fallbackOpts = append(fallbackOpts, translator.WithValidator(validator.New(vOpts...)))
	}

	orch := orchestrator.New(
		extractor.New(extractor.WithLogger(log)),
		translator.NewFallback(services, fallbackOpts...),
		rd,
		orchestrator.Config{SourceLang: opts.source, TargetLang: opts.target},
		orchOpts...,
	)

	report, err := orch.Run(ctx, opts.input, opts.output)
	if errors.Is(err, orchestrator.ErrInputNotFound) {
		fmt.Fprintf(out, "Input file not found: %s\n", opts.input)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Successfully translated %s to %s (%s -> %s)\n",
		report.InputFile, report.OutputFile, report.SourceLang, report.TargetLang)
	if report.Counts.Fallback > 0 {
		fmt.Fprintf(out, "%d of %d fragments kept their original text\n", report.Counts.Fallback, report.Fragments)
	}
	return nil
}

// loadRenderer loads the regular and optional bold fonts. It runs before any
// other work so that a bad font path fails immediately.
func loadRenderer(fontPath, boldPath string) (*renderer.Renderer, error) {
	if fontPath == "" {
		return nil, fmt.Errorf("--font is required: %w", renderer.ErrFontNotFound)
	}

	regular, err := renderer.LoadFont(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	opts := []renderer.Option{renderer.WithLogger(logrus.StandardLogger())}
	if boldPath != "" {
		bold, err := renderer.LoadFont(boldPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load bold font: %w", err)
		}
		opts = append(opts, renderer.WithBoldFont(bold))
	}

	return renderer.New(regular, opts...), nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	f := translateCmd.Flags()
	f.StringP("input", "i", "", "Input PDF file to translate (required)")
	f.StringP("output", "o", "", "Output PDF file (required)")
	f.StringP("font", "f", "", "TrueType font covering the target script (required)")
	f.StringP("bold-font", "b", "", "TrueType font for headings (defaults to --font)")
	f.StringP("source", "s", translator.AutoDetect, "Source language code, or auto")
	f.StringP("target", "t", "", "Target language code (required)")
	f.StringP("credentials", "c", "", "Path to Google Cloud credentials")
	f.String("google-api-key", "", "Google Translate API key")

	f.StringSlice("services", []string{"google"}, "Translation services to try in order (comma-separated)")
	f.Duration("timeout", translator.DefaultTimeout, "Timeout for a single service call")

	f.String("ollama-url", "http://localhost:11434", "Ollama base URL")
	f.StringSlice("ollama-models", nil, "Ollama models; the first is used (default list used if empty)")
	f.String("openrouter-key", "", "OpenRouter API key")
	f.String("openrouter-url", "", "OpenRouter API base URL")
	f.StringSlice("openrouter-models", nil, "OpenRouter models; the first is used (default list used if empty)")
	f.String("systran-key", "", "Systran API key")
	f.String("mymemory-email", "", "MyMemory email (for higher limits)")

	f.Bool("no-cache", false, "Disable translation memory, glossary and run history")
	f.Bool("no-detect", false, "Leave source language detection to the services")
	f.Bool("no-validate", false, "Accept service answers not written in the target script")

	for _, name := range []string{
		"input", "output", "font", "bold-font", "source", "target", "credentials", "google-api-key",
		"services", "timeout", "ollama-url", "ollama-models", "openrouter-key", "openrouter-url",
		"openrouter-models", "systran-key", "mymemory-email", "no-cache", "no-detect", "no-validate",
	} {
		bindFlag(flagKey(name), f.Lookup(name))
	}
}
