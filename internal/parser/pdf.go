package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedType = errors.New("only PDF files are accepted")
	ErrNotPDF          = errors.New("file is not a PDF document")
	ErrUnreadablePDF   = errors.New("PDF could not be read")
)

var pdfMagic = []byte("%PDF-")

// Info summarizes an accepted upload.
type Info struct {
	Pages int
	// TextChars counts text-layer characters. Zero means a scanned document,
	// which the extraction providers still accept.
	TextChars int
}

// IsSupportedExtension reports whether filename names a PDF.
func IsSupportedExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// Inspect checks that data is a readable PDF with at least one page.
func Inspect(filename string, data []byte) (info *Info, err error) {
	if !IsSupportedExtension(filename) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, filename)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, ErrNotPDF
	}

	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			info, err = nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadablePDF, err)
	}
	pages := reader.NumPage()
	if pages == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrUnreadablePDF)
	}
	return &Info{Pages: pages, TextChars: countText(reader)}, nil
}

func countText(reader *pdflib.Reader) int {
	fonts := make(map[string]*pdflib.Font)
	total := 0
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		total += len(strings.TrimSpace(pageText(page, fonts)))
	}
	return total
}

// pageText returns "" for pages whose content stream cannot be decoded.
func pageText(page pdflib.Page, fonts map[string]*pdflib.Font) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	for _, name := range page.Fonts() {
		if _, ok := fonts[name]; !ok {
			f := page.Font(name)
			fonts[name] = &f
		}
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return text
}
