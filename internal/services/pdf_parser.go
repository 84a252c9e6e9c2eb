package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config dir under the user's home.
	api.DisableConfigDir()
}

var errNoPDFText = errors.New("no text content found in PDF")

type PDFParserService interface {
	// ExtractText returns the text of every page that has any, one page per
	// line group, in page order.
	ExtractText(filePath string) (string, error)
	// SplitPages returns every page as a standalone single-page PDF, in page
	// order.
	SplitPages(filePath string) ([][]byte, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ExtractText(filePath string) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var pages []string
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		pageText = CleanText(pageText)
		if pageText == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	if len(pages) == 0 {
		return "", errNoPDFText
	}

	return strings.Join(pages, "\n"), nil
}

func (p *pdfParserService) SplitPages(filePath string) (pages [][]byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("failed to split PDF: %v", r)
		}
	}()

	outDir, err := os.MkdirTemp("", "pdf-pages-")
	if err != nil {
		return nil, fmt.Errorf("failed to create page dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.SplitFile(filePath, outDir, 1, conf); err != nil {
		return nil, fmt.Errorf("failed to split PDF: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(outDir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to list PDF pages: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("PDF has no pages")
	}
	sort.Slice(files, func(i, j int) bool {
		return pageNumber(files[i]) < pageNumber(files[j])
	})

	pages = make([][]byte, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read PDF page: %w", err)
		}
		pages = append(pages, data)
	}
	return pages, nil
}

// pageNumber reads the page suffix of a split output name such as
// "resume_12.pdf". Names without one sort first.
func pageNumber(name string) int {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	suffix := base[strings.LastIndex(base, "_")+1:]
	if i := strings.Index(suffix, "-"); i >= 0 {
		suffix = suffix[:i]
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	return n
}

// CleanText trims every line and drops the empty ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleanedLines := lines[:0]

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
