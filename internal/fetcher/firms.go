package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// ReadFirms loads the firm list from a .csv or .xlsx file. The first row is a
// header that must contain a "name" column; "website" is optional. Rows with a
// blank name are skipped.
func ReadFirms(ctx context.Context, path string) ([]model.FirmInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "firms: open csv")
		}
		defer f.Close() //nolint:errcheck

		rows, err := ReadCSV(ctx, f)
		if err != nil {
			return nil, eris.Wrap(err, "firms: read csv")
		}
		return FirmsFromRows(rows)
	case ".xlsx":
		rows, err := ReadXLSX(ctx, path, "")
		if err != nil {
			return nil, eris.Wrap(err, "firms: read xlsx")
		}
		return FirmsFromRows(rows)
	default:
		return nil, eris.Errorf("firms: unsupported file type %q", filepath.Ext(path))
	}
}

// FirmsFromRows maps a header row plus data rows to firm inputs.
func FirmsFromRows(rows [][]string) ([]model.FirmInput, error) {
	if len(rows) == 0 {
		return nil, eris.New("firms: empty file")
	}

	nameCol, siteCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name", "firm", "firm name", "vc name":
			if nameCol < 0 {
				nameCol = i
			}
		case "website", "url", "site":
			if siteCol < 0 {
				siteCol = i
			}
		}
	}
	if nameCol < 0 {
		return nil, eris.New("firms: header has no name column")
	}

	firms := make([]model.FirmInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, nameCol)
		if name == "" {
			continue
		}
		firms = append(firms, model.FirmInput{Name: name, Website: cell(row, siteCol)})
	}
	return firms, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
