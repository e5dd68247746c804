// Package corpus provides the page corpus: ordered per-page extraction
// records produced from a source PDF, plus document-level metadata.
// This package has no dependencies on other specmill packages to avoid
// import cycles.
package corpus

// PageRecord holds the extracted content of a single page. Records are
// immutable once produced; downstream stages consume them read-only.
type PageRecord struct {
	PageNumber int          `json:"page_number"` // 1-based
	Text       string       `json:"text"`
	Tables     [][][]string `json:"tables"`
	Figures    []Figure     `json:"figures"`
	Confidence float64      `json:"extraction_confidence"`
	Method     string       `json:"extraction_method"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// Figure is a lightweight descriptor for a detected figure reference.
type Figure struct {
	Type string `json:"type"`
	Ref  string `json:"ref"`
}

// DocumentInfo holds document-level metadata extracted once per document.
type DocumentInfo struct {
	Title        string  `json:"title"`
	Creator      *string `json:"creator"`
	Producer     *string `json:"producer"`
	CreationDate *string `json:"creation_date"`
	ModDate      *string `json:"modification_date"`
	TotalPages   int     `json:"total_pages"`
	FileSize     int64   `json:"file_size"`
	PDFVersion   *string `json:"pdf_version"`
}

// Stats summarizes an extraction run over a whole document.
type Stats struct {
	TotalPages            int            `json:"total_pages"`
	SuccessfulExtractions int            `json:"successful_extractions"`
	SuccessRate           float64        `json:"success_rate"`
	AverageConfidence     float64        `json:"average_confidence"`
	TotalTextLength       int            `json:"total_text_length"`
	TotalTables           int            `json:"total_tables"`
	TotalFigures          int            `json:"total_figures"`
	Methods               map[string]int `json:"extraction_methods"`
	PagesWithWarnings     int            `json:"pages_with_warnings"`
}

// ComputeStats aggregates per-page records into extraction statistics.
// A page counts as successfully extracted when its confidence clears 0.3.
func ComputeStats(pages []PageRecord) Stats {
	s := Stats{
		TotalPages: len(pages),
		Methods:    make(map[string]int),
	}
	if len(pages) == 0 {
		return s
	}

	var confSum float64
	for _, p := range pages {
		if p.Confidence > 0.3 {
			s.SuccessfulExtractions++
		}
		confSum += p.Confidence
		s.TotalTextLength += len(p.Text)
		s.TotalTables += len(p.Tables)
		s.TotalFigures += len(p.Figures)
		s.Methods[p.Method]++
		if len(p.Warnings) > 0 {
			s.PagesWithWarnings++
		}
	}
	s.SuccessRate = float64(s.SuccessfulExtractions) / float64(len(pages))
	s.AverageConfidence = confSum / float64(len(pages))
	return s
}
