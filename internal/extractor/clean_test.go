package extractor

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "plain word", input: "Hello", expected: "Hello"},
		{name: "surrounding spaces", input: "  Hello  ", expected: "Hello"},
		{name: "newline inside", input: "Hel\nlo", expected: "Hel lo"},
		{name: "trailing newline", input: "Hello\n", expected: "Hello"},
		{name: "collapsed whitespace", input: "a \t\n  b", expected: "a b"},
		{name: "non-breaking space separates", input: "a\u00a0b", expected: "a b"},
		{name: "control characters dropped", input: "he\x00l\x07lo", expected: "hello"},
		{name: "soft hyphen dropped", input: "trans\u00adlation", expected: "translation"},
		{name: "zero width joiner dropped", input: "ab\u200dc", expected: "abc"},
		{name: "only control characters", input: "\x01\x02", expected: ""},
		{name: "devanagari kept", input: "धर्मक्षेत्रे", expected: "धर्मक्षेत्रे"},
		{name: "bengali kept", input: " বাংলা ", expected: "বাংলা"},
		{name: "decomposed accent composed", input: "e\u0301", expected: "\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hello",
		"  Hello   World \n",
		"e\u200d\u0301",
		"a\u00a0\u00a0b",
		"\tतत्त्व\x00\n",
		"\u2126 ohm",
		"x\u00ad\u00ady",
		"«quoted»\r\n",
	}

	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}
