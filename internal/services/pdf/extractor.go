// -----------------------------------------------------------------------
// PDF Extractor Service - Extract text content from PDF documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// Extractor implements the PDFExtractor interface using pdfcpu
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
	seq     atomic.Int64
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor service
func NewExtractor(logger arbor.ILogger) *Extractor {
	// Create a temp directory for PDF processing
	tempDir := filepath.Join(os.TempDir(), "respondeo-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractText extracts all text content from raw PDF bytes. Returns a
// ParseError when the bytes are not a readable PDF or contain no
// extractable text.
func (e *Extractor) ExtractText(ctx context.Context, pdfContent []byte) (string, error) {
	if len(pdfContent) == 0 {
		return "", &models.ParseError{Err: fmt.Errorf("empty document body")}
	}

	// Write to temp file for pdfcpu processing
	tempFile := e.tempPath("extract")
	if err := os.WriteFile(tempFile, pdfContent, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", &models.ParseError{Err: fmt.Errorf("failed to read PDF: %w", err)}
	}

	pageCount := pdfCtx.PageCount

	// pdfcpu doesn't have direct text extraction, so we extract content
	// streams per page and pull the text runs out of them.
	outDir := e.tempPath("pages")
	os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", &models.ParseError{Err: fmt.Errorf("failed to extract PDF content: %w", err)}
	}

	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = textFromContentStream(string(content))
		}
	}

	// Build text in page order
	var fullText strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text := strings.TrimSpace(pageTexts[pageNum])
		if text == "" {
			continue
		}
		if fullText.Len() > 0 {
			fullText.WriteString("\n\n")
		}
		fullText.WriteString(text)
	}

	result := fullText.String()
	if strings.TrimSpace(result) == "" {
		return "", &models.ParseError{Err: fmt.Errorf("no extractable text in document")}
	}

	e.logger.Debug().
		Int("page_count", pageCount).
		Int("text_length", len(result)).
		Msg("Extracted PDF text")

	return result, nil
}

// PageCount returns the number of pages without extracting text
func (e *Extractor) PageCount(ctx context.Context, pdfContent []byte) (int, error) {
	tempFile := e.tempPath("count")
	if err := os.WriteFile(tempFile, pdfContent, 0644); err != nil {
		return 0, fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return 0, &models.ParseError{Err: fmt.Errorf("failed to read PDF: %w", err)}
	}
	return pdfCtx.PageCount, nil
}

// tempPath returns a unique path under the extractor's temp directory.
// Process ID alone isn't enough when requests overlap.
func (e *Extractor) tempPath(prefix string) string {
	n := e.seq.Add(1)
	return filepath.Join(e.tempDir, fmt.Sprintf("%s_%d_%d", prefix, os.Getpid(), n))
}

// textFromContentStream pulls the literal strings out of a PDF content
// stream. Text shown with Tj/TJ operators appears as (...) literals;
// everything else in the stream is drawing operators we drop. Octal and
// character escapes inside literals are resolved.
func textFromContentStream(stream string) string {
	var out strings.Builder
	depth := 0
	i := 0
	for i < len(stream) {
		c := stream[i]
		switch {
		case c == '\\' && depth > 0 && i+1 < len(stream):
			next := stream[i+1]
			switch next {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r', 'b', 'f':
				// Ignore control escapes that aren't useful as text
			case '(', ')', '\\':
				out.WriteByte(next)
			default:
				if next >= '0' && next <= '7' {
					// Octal escape, up to three digits
					val := 0
					j := i + 1
					for j < len(stream) && j <= i+3 && stream[j] >= '0' && stream[j] <= '7' {
						val = val*8 + int(stream[j]-'0')
						j++
					}
					if val >= 32 && val < 127 {
						out.WriteByte(byte(val))
					}
					i = j
					continue
				}
				out.WriteByte(next)
			}
			i += 2
			continue
		case c == '(':
			if depth > 0 {
				out.WriteByte(c)
			} else if out.Len() > 0 && !strings.HasSuffix(out.String(), " ") {
				out.WriteByte(' ')
			}
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
			if depth > 0 {
				out.WriteByte(c)
			}
		default:
			if depth > 0 {
				out.WriteByte(c)
			}
		}
		i++
	}
	return strings.TrimSpace(out.String())
}
