package internal

import "time"

// DefaultFontSize is used when a source glyph carries no usable size.
const DefaultFontSize = 12.0

// Fragment is one extracted word with the formatting it had in the source
// document. After translation Text holds the translated word.
type Fragment struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
	Bold     bool    `json:"bold"`
	Page     int     `json:"page"`
	Font     string  `json:"font,omitempty"`
}

// WithText returns a copy of f carrying text instead of f.Text.
func (f Fragment) WithText(text string) Fragment {
	f.Text = text
	return f
}

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// OutcomeCounts tallies how the fragments of a run were translated.
type OutcomeCounts struct {
	Translated int `json:"translated"`
	Cached     int `json:"cached"`
	Glossary   int `json:"glossary"`
	Skipped    int `json:"skipped"`
	Fallback   int `json:"fallback"`
}

// Total is the number of fragments counted.
func (c OutcomeCounts) Total() int {
	return c.Translated + c.Cached + c.Glossary + c.Skipped + c.Fallback
}

// TranslationRun describes one pipeline run as recorded in the run history.
type TranslationRun struct {
	ID         string        `json:"id"`
	InputFile  string        `json:"input_file"`
	OutputFile string        `json:"output_file"`
	SourceLang string        `json:"source_lang"`
	TargetLang string        `json:"target_lang"`
	Status     RunStatus     `json:"status"`
	Counts     OutcomeCounts `json:"counts"`
	Pages      int           `json:"pages"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
}
