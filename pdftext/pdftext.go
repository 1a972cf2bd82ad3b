// Package pdftext turns a note document into the text of each of its pages.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/ulikunitz/xz"
)

// ErrUnsupported is returned by ForPath for file types no extractor reads.
var ErrUnsupported = errors.New("unsupported document type")

// Extractor returns the text of every page of a document, in page order.
type Extractor interface {
	Pages(ctx context.Context, path string) ([]string, error)
}

// PDF reads the text layer of a PDF file.
type PDF struct{}

func (PDF) Pages(ctx context.Context, path string) (pages []string, err error) {
	// The pdf reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("read %s: %v", path, r)
		}
	}()

	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", path, i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// FormFeed separates pages in text dumps such as pdftotext's output.
const FormFeed = "\f"

// Text reads a text dump whose pages are separated by form feeds.
type Text struct{}

func (Text) Pages(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return splitPages(string(data)), nil
}

// TextXZ reads an xz-compressed text dump.
type TextXZ struct{}

func (TextXZ) Pages(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("xz %s: %w", path, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xz %s: %w", path, err)
	}
	return splitPages(string(data)), nil
}

func splitPages(s string) []string {
	s = strings.TrimSuffix(s, FormFeed)
	if s == "" {
		return nil
	}
	return strings.Split(s, FormFeed)
}

// Extensions are matched longest first.
var byExt = []struct {
	ext string
	e   Extractor
}{
	{".txt.xz", TextXZ{}},
	{".pdf", PDF{}},
	{".txt", Text{}},
}

func lookup(path string) (Extractor, bool) {
	lower := strings.ToLower(filepath.Base(path))
	for _, x := range byExt {
		if strings.HasSuffix(lower, x.ext) {
			return x.e, true
		}
	}
	return nil, false
}

// ForPath picks the extractor for path by its extension.
func ForPath(path string) (Extractor, error) {
	if e, ok := lookup(path); ok {
		return e, nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
}

// Supported reports whether ForPath has an extractor for path.
func Supported(path string) bool {
	_, ok := lookup(path)
	return ok
}
