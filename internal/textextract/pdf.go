// Package textextract renders PDF bytes into per-page text. It is the
// upstream collaborator of the extraction pipeline: the only fatal outcome
// is input that is not a PDF at all; an unreadable page yields an empty
// string, never an error.
package textextract

import (
	"bytes"
	"log/slog"
	"sync"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/devfolarin/payslip-extractor/internal/common"
)

type Config struct {
	// MaxPages caps how many pages are rendered; 0 means no limit.
	MaxPages int
}

type Service struct {
	cfg    Config
	logger *slog.Logger
}

func NewService(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, logger: logger}
}

// ExtractPages validates the bytes are a PDF and extracts the text layer of
// every page. Pages run concurrently but the result is reassembled in
// original page order, since section boundary detection downstream depends
// on sequential text.
func (s *Service) ExtractPages(data []byte) ([]string, error) {
	start := time.Now()

	conf := model.NewDefaultConfiguration()
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		s.logger.Error("textextract.validate.failed", "error", err)
		return nil, common.WrapError(common.ErrUnreadableInput, err.Error())
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.logger.Error("textextract.open.failed", "error", err)
		return nil, common.WrapError(common.ErrUnreadableInput, err.Error())
	}

	total := reader.NumPage()
	if s.cfg.MaxPages > 0 && total > s.cfg.MaxPages {
		total = s.cfg.MaxPages
	}

	pages := make([]string, total)
	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			pages[idx] = pageText(reader, idx+1)
		}(i)
	}
	wg.Wait()

	s.logger.Info("textextract.ok",
		"pages", total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}

// pageText extracts one page's text by row. Any per-page failure degrades to
// an empty string.
func pageText(reader *pdf.Reader, pageNum int) string {
	defer func() {
		// the pdf package panics on some malformed content streams
		_ = recover()
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}

	var b bytes.Buffer
	for _, row := range rows {
		for wordIdx, word := range row.Content {
			if wordIdx > 0 {
				b.WriteString(" ")
			}
			b.WriteString(word.S)
		}
		b.WriteString("\n")
	}
	return b.String()
}
