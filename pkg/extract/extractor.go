package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ScannedPDFPlaceholder is stored instead of empty content when a PDF yields
// no usable text, so the user sees an actionable message rather than silence.
const ScannedPDFPlaceholder = "This PDF appears to be scanned or image-based and its text could not be extracted. " +
	"Please upload a text-based PDF or a plain-text version of the document."

// minPDFSignalChars is the minimum extracted length (after trimming) below
// which a PDF is treated as scanned/unreadable.
const minPDFSignalChars = 100

// UnsupportedFileTypeError indicates the MIME type has no extraction handler.
type UnsupportedFileTypeError struct {
	MimeType string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MimeType)
}

// OCRProvider recognizes text in images. An empty result is valid, unlike the
// PDF low-signal case.
type OCRProvider interface {
	Recognize(image []byte, mimeType string) (string, error)
}

// Extractor converts stored uploads into raw text. It is a pure function over
// bytes; persistence is the caller's concern.
type Extractor struct {
	ocr OCRProvider
}

// New creates an extractor. ocr may be nil when image uploads are disabled.
func New(ocr OCRProvider) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extract returns the raw text for the given bytes and MIME type.
func (e *Extractor) Extract(data []byte, mimeType string) (string, error) {
	switch normalizeMime(mimeType) {
	case "text/plain", "text/markdown", "text/csv":
		return extractPlainText(data)
	case "application/pdf":
		return extractPDF(data), nil
	// Legacy .doc (application/msword) is an OLE2 container the DOCX
	// reader cannot parse, so it falls through to the unsupported error.
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return extractDOCX(data)
	case "image/png", "image/jpeg", "image/tiff", "image/webp":
		return e.extractImage(data, mimeType)
	default:
		return "", &UnsupportedFileTypeError{MimeType: mimeType}
	}
}

func normalizeMime(mimeType string) string {
	// Strip parameters like "; charset=utf-8".
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		// Replace invalid sequences rather than failing the upload.
		return strings.ToValidUTF8(string(data), "�"), nil
	}
	return string(data), nil
}

func (e *Extractor) extractImage(data []byte, mimeType string) (string, error) {
	if e.ocr == nil {
		return "", &UnsupportedFileTypeError{MimeType: mimeType}
	}
	text, err := e.ocr.Recognize(data, mimeType)
	if err != nil {
		return "", fmt.Errorf("ocr recognition failed: %w", err)
	}
	// Empty OCR output is accepted; the image may simply contain no text.
	return text, nil
}
