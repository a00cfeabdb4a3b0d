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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/valpere/pdftran/internal/store"
	"github.com/valpere/pdftran/internal/translator"
)

// serviceOptions carries the per-service settings gathered from flags,
// config file and environment.
type serviceOptions struct {
	credentials     string
	googleAPIKey    string
	ollamaURL       string
	ollamaModels    []string
	openrouterKey   string
	openrouterURL   string
	openrouterModel []string
	systranKey      string
	mymemoryEmail   string
}

// buildServices constructs the translation services in the order they are
// tried for every fragment.
func buildServices(serviceNames []string, opts serviceOptions) ([]translator.TranslationService, error) {
	var list []translator.TranslationService
	seen := make(map[string]bool)

	for _, name := range serviceNames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case "google":
			list = append(list, translator.NewGoogleService(opts.credentials))
		case "systran":
			list = append(list, translator.NewSystranService(opts.systranKey))
		case "mymemory":
			list = append(list, translator.NewMyMemoryService(opts.mymemoryEmail))
		case "ollama":
			list = append(list, translator.NewOllamaTranslator(opts.ollamaURL, opts.ollamaModels))
		case "openrouter":
			list = append(list, translator.NewOpenRouterService(opts.openrouterKey, opts.openrouterURL, opts.openrouterModel))
		default:
			logrus.WithField("service", name).Warn("unknown service, skipping")
		}
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no valid services configured")
	}
	return list, nil
}

// closeServices releases services holding client connections.
func closeServices(services []translator.TranslationService) {
	for _, svc := range services {
		if c, ok := svc.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logrus.WithError(err).WithField("service", svc.Name()).Debug("failed to close service")
			}
		}
	}
}

// openStore opens the SQLite database, creating its directory when needed.
func openStore(dbPath string) (*store.Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// glossaryFor returns the glossary terms for a language pair. With an
// automatic source every term for the target language applies.
func glossaryFor(ctx context.Context, db *store.Store, sourceLang, targetLang string) (map[string]string, error) {
	if sourceLang != translator.AutoDetect {
		return db.GetGlossaryTerms(ctx, sourceLang, targetLang)
	}

	entries, err := db.ListGlossaryTerms(ctx, "", targetLang)
	if err != nil {
		return nil, err
	}
	terms := make(map[string]string, len(entries))
	for _, e := range entries {
		terms[e.SourceTerm] = e.TargetTerm
	}
	return terms, nil
}

// samePath reports whether a and b name the same file, however they are
// spelled. Files that do not exist yet are compared by absolute path.
func samePath(a, b string) bool {
	if ai, err := os.Stat(a); err == nil {
		if bi, err := os.Stat(b); err == nil {
			return os.SameFile(ai, bi)
		}
	}

	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// flagKey turns a flag name into its config key: "bold-font" → "bold_font".
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// truncate shortens s to at most n runes for table output.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
