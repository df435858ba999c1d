package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/motoblog/internal/models"
	"github.com/xuri/excelize/v2"
)

// excelDateLayouts are the cell formats excelize renders date cells with.
var excelDateLayouts = []string{"01-02-06", "1/2/06", "1/2/2006"}

// parseExcelManifest reads post records from the first sheet of a workbook. Row 1 names
// the columns (slug, title, excerpt, category, tags, date, author, image, reading time,
// body); tags are comma separated. Blank rows are skipped.
func parseExcelManifest(path string, content []byte) ([]models.PostInput, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeColumn(h)
	}

	var recs []models.PostInput
	for r, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		var rec models.PostInput
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			setColumn(&rec, header[i], strings.TrimSpace(cell))
		}
		// Row numbers are 1-based and the header is row 1.
		rec.Source = fmt.Sprintf("%s[row %d]", path, r+2)
		complete(&rec, PlainText(rec.Body), "")
		recs = append(recs, rec)
	}
	return recs, nil
}

func normalizeColumn(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
	return h
}

func setColumn(rec *models.PostInput, column, value string) {
	switch column {
	case "slug":
		rec.Slug = value
	case "title":
		rec.Title = value
	case "excerpt":
		rec.Excerpt = value
	case "category":
		rec.Category = value
	case "tags":
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				rec.Tags = append(rec.Tags, t)
			}
		}
	case "date":
		rec.Date = excelDate(value)
	case "author":
		rec.Author = value
	case "image":
		rec.Image = value
	case "readingtime":
		rec.ReadingTime = value
	case "body":
		rec.Body = value
	}
}

// excelDate rewrites a rendered date cell as YYYY-MM-DD. Other values pass through
// for the catalog to validate.
func excelDate(value string) string {
	if _, ok := models.ParseDate(value); ok {
		return value
	}
	for _, layout := range excelDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return value
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
