package interfaces

import "context"

// PDFExtractor extracts plain text from PDF document bytes
type PDFExtractor interface {
	// ExtractText returns the concatenated text content of all pages.
	// Fails if the bytes are not a parseable PDF or contain no
	// extractable text.
	ExtractText(ctx context.Context, pdfContent []byte) (string, error)

	// PageCount returns the number of pages without extracting text
	PageCount(ctx context.Context, pdfContent []byte) (int, error)
}
