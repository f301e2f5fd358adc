package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// SupportedExtensions maps accepted upload extensions to their MIME type.
var SupportedExtensions = map[string]string{
	".pdf":  MimePDF,
	".docx": MimeDOCX,
	".txt":  MimeText,
}

type TextExtractor interface {
	ExtractText(data []byte, filename, contentType string) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// DetectContentType resolves a MIME type from the file extension first and
// the declared content type second.
func DetectContentType(filename, contentType string) (string, error) {
	if mime, ok := SupportedExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime, nil
	}

	declared := strings.TrimSpace(strings.Split(contentType, ";")[0])
	for _, mime := range SupportedExtensions {
		if mime == declared {
			return mime, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, filename)
}

// StorageName gives a file name whose extension matches mime, appending one
// when the original name has no supported extension.
func StorageName(filename, mime string) string {
	if _, ok := SupportedExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return filename
	}
	for ext, supported := range SupportedExtensions {
		if supported == mime {
			return filename + ext
		}
	}
	return filename
}

// ExtractText implements TextExtractor.
func (t *textExtractor) ExtractText(data []byte, filename, contentType string) (string, error) {
	mime, err := DetectContentType(filename, contentType)
	if err != nil {
		return "", err
	}

	var text string
	switch mime {
	case MimeText:
		text = string(data)
	case MimePDF:
		text, err = extractPDFText(data)
	case MimeDOCX:
		text, err = extractDocxText(data)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w in %s", ErrNoTextContent, filename)
	}

	return text, nil
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
