package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF attempts structural text extraction. Parse errors and low-signal
// output (scanned PDFs) both yield the placeholder, never an error and never
// silently empty content.
func extractPDF(data []byte) (text string) {
	// The pdf library panics on some malformed files; treat that as unreadable.
	defer func() {
		if r := recover(); r != nil {
			text = ScannedPDFPlaceholder
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ScannedPDFPlaceholder
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageText)
	}

	return pdfTextOrPlaceholder(b.String())
}

// pdfTextOrPlaceholder applies the minimum-signal policy: anything under
// minPDFSignalChars after trimming is treated as a scanned PDF.
func pdfTextOrPlaceholder(text string) string {
	if len(strings.TrimSpace(text)) < minPDFSignalChars {
		return ScannedPDFPlaceholder
	}
	return text
}
