package translator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageName turns a language code into an English name for LLM prompts,
// falling back to the code itself when it is not a known tag.
func languageName(code string) string {
	if code == "" || code == AutoDetect {
		return "the detected language"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// buildFragmentPrompt frames a single word or short phrase lifted out of a
// document for translation.
func buildFragmentPrompt(req TranslateRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are a professional translator. Translate the following word or short phrase from %s to %s.\n",
		languageName(req.SourceLang), languageName(req.TargetLang)))
	sb.WriteString("It was extracted from a document, so it may be a fragment of a sentence. ")
	sb.WriteString("Only respond with the translation, nothing else. No explanations, no quotes, no alternatives.")

	return sb.String()
}
