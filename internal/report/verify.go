package report

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// Verification is the outcome of checking an exported document
type Verification struct {
	Valid   bool   `json:"valid"`
	Pages   int    `json:"pages"`
	Size    int    `json:"size"`
	Message string `json:"message,omitempty"`
}

func pdfcpuConfig() *model.Configuration {
	// pdfcpu would otherwise create a config dir under the user's home
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Verify validates a rendered document with pdfcpu and counts its pages
func Verify(data []byte) (*Verification, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	result := &Verification{Size: len(data)}
	conf := pdfcpuConfig()

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // an invalid document is a result, not a processing error
	}

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	result.Valid = true
	result.Pages = pages
	return result, nil
}

// ExtractText returns the plain text of every page of a rendered document
func ExtractText(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pages := make([]string, 0, r.NumPage())
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}
		pages = append(pages, strings.TrimSpace(content))
	}
	return pages, nil
}
