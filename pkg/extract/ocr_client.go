package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// OCRClient talks to an external OCR service over HTTP multipart upload.
type OCRClient struct {
	baseURL    string
	httpClient *http.Client
}

type ocrResponse struct {
	Success bool    `json:"success"`
	Text    string  `json:"text"`
	Error   string  `json:"error,omitempty"`
	Quality float64 `json:"quality_score,omitempty"`
}

var _ OCRProvider = (*OCRClient)(nil)

// NewOCRClient creates a client for the OCR service at baseURL.
func NewOCRClient(baseURL string) *OCRClient {
	return &OCRClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // OCR can take time on multi-page scans
		},
	}
}

// Recognize submits the image and returns recognized text. Empty text with a
// success response is a valid outcome.
func (c *OCRClient) Recognize(image []byte, mimeType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "upload")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("write image payload: %w", err)
	}
	if err := writer.WriteField("content_type", mimeType); err != nil {
		return "", fmt.Errorf("write content type field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/ocr", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ocr response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr error: status %d, body: %s", resp.StatusCode, string(respBytes))
	}

	var parsed ocrResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal ocr response: %w", err)
	}
	if !parsed.Success {
		return "", fmt.Errorf("ocr failed: %s", parsed.Error)
	}

	return parsed.Text, nil
}
