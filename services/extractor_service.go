package services

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"pdfcast/models"
)

func init() {

	// Load .env file from the current directory
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	err := license.SetMeteredKey(os.Getenv("UNIDOC_LICENSE_KEY"))
	if err != nil {
		fmt.Printf("ERROR: Failed to set Unidoc license key: %v. PDF processing will fail.\n", err)
	}
}

// PageExtractor pulls per-page text out of an uploaded source file.
type PageExtractor interface {
	ExtractPages(path string) ([]models.PageText, error)
}

// UniPDFExtractor implements PageExtractor with UniPDF.
type UniPDFExtractor struct{}

func (UniPDFExtractor) ExtractPages(path string) ([]models.PageText, error) {
	return ExtractPages(path)
}

// ExtractPages uses UniPDF to pull the text of each page, keeping the page
// number as a first-class attribute of the result.
func ExtractPages(path string) ([]models.PageText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	pages := make([]models.PageText, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("failed to get page %d: %w", i, err)
		}

		ex, err := extractor.New(page)
		if err != nil {
			return nil, fmt.Errorf("failed to create extractor for page %d: %w", i, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, models.PageText{Page: i, Text: text})
	}

	return pages, nil
}

// MarkedText joins page texts into one document string with [PAGE n]
// markers. The marked form is what gets persisted as the document text and
// what the chunker tags pages from.
func MarkedText(pages []models.PageText) string {
	var sb strings.Builder
	for i, p := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("[PAGE %d]\n", p.Page))
		sb.WriteString(p.Text)
	}
	return sb.String()
}
