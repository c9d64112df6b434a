package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOCR struct {
	text  string
	err   error
	calls int
}

func (f *fakeOCR) Recognize(image []byte, mimeType string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestExtractPlainText(t *testing.T) {
	e := New(nil)

	text, err := e.Extract([]byte("Section 12(1) of the Evidence Act applies."), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Section 12(1) of the Evidence Act applies.", text)
}

func TestExtractPlainTextWithCharsetParameter(t *testing.T) {
	e := New(nil)

	text, err := e.Extract([]byte("hello"), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtractUnsupportedMimeType(t *testing.T) {
	e := New(nil)

	_, err := e.Extract([]byte{0x00}, "application/x-shockwave-flash")

	var unsupported *UnsupportedFileTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Contains(t, unsupported.Error(), "application/x-shockwave-flash")
}

func TestPDFLowSignalReturnsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "empty extraction",
			text: "",
			want: ScannedPDFPlaceholder,
		},
		{
			name: "fifty characters is below threshold",
			text: strings.Repeat("a", 50),
			want: ScannedPDFPlaceholder,
		},
		{
			name: "ninety-nine characters is below threshold",
			text: strings.Repeat("a", 99),
			want: ScannedPDFPlaceholder,
		},
		{
			name: "whitespace padding does not count as signal",
			text: strings.Repeat("a", 60) + strings.Repeat(" ", 200),
			want: ScannedPDFPlaceholder,
		},
		{
			name: "hundred characters passes",
			text: strings.Repeat("a", 100),
			want: strings.Repeat("a", 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pdfTextOrPlaceholder(tt.text))
		})
	}
}

func TestExtractMalformedPDFReturnsPlaceholderNotError(t *testing.T) {
	e := New(nil)

	text, err := e.Extract([]byte("%PDF-1.4 garbage that is not a real pdf"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, ScannedPDFPlaceholder, text)
}

func TestExtractImageUsesOCR(t *testing.T) {
	ocr := &fakeOCR{text: "EXHIBIT A"}
	e := New(ocr)

	text, err := e.Extract([]byte{0x89, 0x50}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "EXHIBIT A", text)
	assert.Equal(t, 1, ocr.calls)
}

func TestExtractImageEmptyOCRResultAccepted(t *testing.T) {
	e := New(&fakeOCR{text: ""})

	text, err := e.Extract([]byte{0x89, 0x50}, "image/jpeg")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractImageWithoutOCRProvider(t *testing.T) {
	e := New(nil)

	_, err := e.Extract([]byte{0x89, 0x50}, "image/png")

	var unsupported *UnsupportedFileTypeError
	assert.True(t, errors.As(err, &unsupported))
}

func TestExtractDOCX(t *testing.T) {
	doc := buildDOCX(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>MEMORANDUM OF UNDERSTANDING</w:t></w:r></w:p>
    <w:p><w:r><w:t>Between </w:t></w:r><w:r><w:t>the parties.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	e := New(nil)
	text, err := e.Extract(doc, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.NoError(t, err)

	assert.Equal(t, "MEMORANDUM OF UNDERSTANDING\nBetween the parties.", text)
}

func TestExtractDOCXInvalidArchive(t *testing.T) {
	e := New(nil)

	_, err := e.Extract([]byte("not a zip"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	assert.Error(t, err)
}

// Legacy .doc files are OLE2 binaries, not zip archives, so the DOCX reader
// cannot parse them. They are rejected up front instead.
func TestExtractLegacyDocUnsupported(t *testing.T) {
	e := New(nil)

	_, err := e.Extract([]byte{0xD0, 0xCF, 0x11, 0xE0}, "application/msword")

	var unsupported *UnsupportedFileTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "application/msword", unsupported.MimeType)
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}
