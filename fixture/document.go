package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// SampleExcerpt returns a bounded text excerpt of a sample document for
// inclusion in the planning instruction. PDF documents are converted to plain
// text; anything else is read as-is. The excerpt is truncated to maxBytes.
func SampleExcerpt(path string, maxBytes int) (string, error) {
	var text string

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		extracted, err := pdfText(path)
		if err != nil {
			return "", fmt.Errorf("extract pdf text: %w", err)
		}
		text = extracted
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if maxBytes > 0 && len(text) > maxBytes {
		// Never cut a UTF-8 sequence mid-rune.
		cut := maxBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text, nil
}

func pdfText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
