package renderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/sfnt"
)

var (
	ErrFontNotFound = errors.New("font file not found")
	ErrFontInvalid  = errors.New("invalid font file")
)

// Font is a TrueType/OpenType face loaded into memory, ready to be embedded.
type Font struct {
	Path   string
	Family string
	data   []byte
}

// LoadFont reads and parses the font at path. It is meant to run before any
// other work so that a bad font path stops the program early.
func LoadFont(path string) (*Font, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFontNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrFontInvalid, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFontInvalid, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontInvalid, path, err)
	}

	return ParseFont(path, data)
}

// ParseFont builds a Font from raw bytes; name is used in errors and as the
// family name when the font carries none.
func ParseFont(name string, data []byte) (*Font, error) {
	parsed, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontInvalid, name, err)
	}

	if err := checkEmbeddable(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontInvalid, name, err)
	}

	family, err := parsed.Name(&sfnt.Buffer{}, sfnt.NameIDFamily)
	if err != nil || strings.TrimSpace(family) == "" {
		family = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}

	return &Font{Path: name, Family: family, data: data}, nil
}

// checkEmbeddable registers data in a scratch document the way Render does.
// gofpdf only embeds TrueType outlines; CFF-flavoured OpenType parses with
// sfnt but fails here.
func checkEmbeddable(data []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("font registration panicked: %v", rec)
		}
	}()

	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.AddUTF8FontFromBytes(fontFamily, "", data)
	doc.SetFont(fontFamily, "", 12)
	doc.GetStringWidth("a")
	return doc.Error()
}
