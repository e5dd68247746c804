package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/avast/retry-go/v4"
	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Extractor reads a PDF and produces the page corpus.
type Extractor struct {
	pdfPath string
	log     *slog.Logger

	// FallbackPdftotext enables shelling out to pdftotext when the Go
	// extractor yields no text for the whole document.
	FallbackPdftotext bool
}

// NewExtractor creates an extractor for the given PDF path.
func NewExtractor(pdfPath string, log *slog.Logger) (*Extractor, error) {
	if log == nil {
		log = slog.Default()
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("PDF not found: %s", pdfPath)
	}
	return &Extractor{pdfPath: pdfPath, log: log, FallbackPdftotext: true}, nil
}

// DocumentInfo extracts document-level metadata: page count, file size,
// and the PDF info dictionary (creator, producer, dates, version). The
// title falls back to the file stem when the PDF carries none.
func (e *Extractor) DocumentInfo() (*DocumentInfo, error) {
	fi, err := os.Stat(e.pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF: %w", err)
	}

	f, err := os.Open(e.pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pageCount, err := api.PageCount(f, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	base := filepath.Base(e.pdfPath)
	info := &DocumentInfo{
		Title:      strings.TrimSuffix(base, filepath.Ext(base)),
		TotalPages: pageCount,
		FileSize:   fi.Size(),
	}

	// Info dictionary metadata is best effort: a PDF with a broken or
	// absent info dict still parses.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return info, nil
	}
	pi, err := api.PDFInfo(f, e.pdfPath, nil, false, nil)
	if err != nil {
		e.log.Warn("pdf metadata extraction failed", "error", err)
		return info, nil
	}
	if pi.Title != "" {
		info.Title = pi.Title
	}
	info.Creator = optionalString(pi.Creator)
	info.Producer = optionalString(pi.Producer)
	info.CreationDate = optionalString(pi.CreationDate)
	info.ModDate = optionalString(pi.ModificationDate)
	info.PDFVersion = optionalString(pi.Version)
	return info, nil
}

// optionalString maps empty strings to nil so absent metadata
// serializes as an explicit null.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ExtractPages extracts every page of the document. Text extraction is
// sequential (the reader is not safe for concurrent page access); content
// analysis and quality scoring fan out across pages with bounded workers.
func (e *Extractor) ExtractPages(ctx context.Context, info *DocumentInfo) ([]PageRecord, error) {
	texts, method, err := e.extractText(info.TotalPages)
	if err != nil {
		return nil, err
	}

	e.log.Info("extracted page text", "pages", len(texts), "method", method)

	pages := make([]PageRecord, len(texts))
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)
	done := make(chan int, len(texts))

	for i := range texts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sem <- struct{}{}: // acquire
		}
		go func(idx int) {
			defer func() { <-sem }() // release
			pages[idx] = buildPageRecord(idx+1, texts[idx], method)
			done <- idx
		}(i)
	}
	for range texts {
		<-done
	}

	return pages, nil
}

// extractText returns per-page text via ledongthuc/pdf, falling back to
// pdftotext when the whole document comes back empty.
func (e *Extractor) extractText(totalPages int) ([]string, string, error) {
	texts, err := e.extractWithGoReader(totalPages)
	if err == nil && !allEmpty(texts) {
		return texts, "go-pdf", nil
	}
	if err != nil {
		e.log.Warn("go pdf extraction failed", "error", err)
	}

	if !e.FallbackPdftotext {
		if err != nil {
			return nil, "", err
		}
		return texts, "go-pdf", nil
	}

	fallback, ferr := e.extractWithPdftotext()
	if ferr != nil {
		if err != nil {
			return nil, "", fmt.Errorf("all extraction methods failed: %w", err)
		}
		e.log.Warn("pdftotext fallback failed", "error", ferr)
		return texts, "go-pdf", nil
	}
	// Pad or trim to the declared page count so page numbering stays aligned.
	for len(fallback) < totalPages {
		fallback = append(fallback, "")
	}
	if totalPages > 0 && len(fallback) > totalPages {
		fallback = fallback[:totalPages]
	}
	return fallback, "pdftotext", nil
}

func (e *Extractor) extractWithGoReader(totalPages int) ([]string, error) {
	f, reader, err := ledongthuc.Open(e.pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for text extraction: %w", err)
	}
	defer f.Close()

	n := reader.NumPage()
	if totalPages > 0 && n > totalPages {
		n = totalPages
	}

	texts := make([]string, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.log.Debug("page text extraction failed", "page", i, "error", err)
			continue
		}
		texts[i-1] = text
	}
	return texts, nil
}

// extractWithPdftotext shells out to pdftotext (poppler-utils) with layout
// preservation. Transient failures are retried.
func (e *Extractor) extractWithPdftotext() ([]string, error) {
	var out []byte
	err := retry.Do(
		func() error {
			cmd := exec.Command("pdftotext", "-layout", e.pdfPath, "-")
			var err error
			out, err = cmd.Output()
			if err != nil {
				return fmt.Errorf("pdftotext: %w", err)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(string(out), "\f"), nil
}

func allEmpty(texts []string) bool {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	return true
}

var (
	tableRowRe      = regexp.MustCompile(`\|[^|\n]+\|`)
	figureCaptionRe = regexp.MustCompile(`(?i)Figure\s+(\d+(?:[-.]\d+)*)`)
)

// buildPageRecord analyzes one page of text: detects pipe-delimited table
// rows and figure captions, and scores extraction quality.
func buildPageRecord(pageNum int, text, method string) PageRecord {
	rec := PageRecord{
		PageNumber: pageNum,
		Text:       text,
		Method:     method,
		Confidence: TextQuality(text),
	}
	if strings.TrimSpace(text) == "" {
		rec.Warnings = append(rec.Warnings, "no text extracted")
		return rec
	}

	rec.Tables = detectTables(text)
	for _, m := range figureCaptionRe.FindAllStringSubmatch(text, -1) {
		rec.Figures = append(rec.Figures, Figure{Type: "caption", Ref: m[1]})
	}
	return rec
}

// detectTables groups consecutive pipe-delimited lines into rectangular
// string grids. A group needs at least two rows to count as a table.
func detectTables(text string) [][][]string {
	var tables [][][]string
	var current [][]string

	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if !tableRowRe.MatchString(line) {
			flush()
			continue
		}
		cells := strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|")
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = strings.TrimSpace(c)
		}
		current = append(current, row)
	}
	flush()
	return tables
}

// TextQuality scores extracted text in [0,1]. Penalizes sparse alphabetic
// content and garbled characters, rewards plausible word lengths and the
// presence of common technical vocabulary.
func TextQuality(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	score := 0.5

	alpha := 0
	garbled := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			alpha++
		}
		if r > 127 && !unicode.IsSpace(r) {
			garbled++
		}
	}
	total := len([]rune(text))
	alphaRatio := float64(alpha) / float64(total)
	score += min(alphaRatio*0.3, 0.3)

	words := strings.Fields(text)
	if len(words) > 0 {
		chars := 0
		for _, w := range words {
			chars += len(w)
		}
		avg := float64(chars) / float64(len(words))
		if avg >= 3 && avg <= 8 {
			score += 0.1
		}
	}

	garbledRatio := float64(garbled) / float64(total)
	score -= min(garbledRatio*0.5, 0.3)

	lower := strings.ToLower(text)
	matches := 0
	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			matches++
		}
	}
	score += min(float64(matches)*0.02, 0.1)

	return max(0.0, min(1.0, score))
}

// technicalTerms are vocabulary hints that extracted text came out clean.
var technicalTerms = []string{
	"usb", "power", "delivery", "specification", "protocol",
	"voltage", "current", "cable", "connector", "message",
}
