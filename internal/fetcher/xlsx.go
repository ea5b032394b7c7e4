package fetcher

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX returns the non-blank rows of a workbook sheet with trimmed cells.
// An empty sheet name selects the first sheet.
func ReadXLSX(ctx context.Context, path, sheet string) ([][]string, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	var ws *xlsx.Sheet
	switch {
	case sheet != "":
		ws = wb.Sheet[sheet]
		if ws == nil {
			return nil, eris.Errorf("xlsx: no sheet named %q", sheet)
		}
	case len(wb.Sheets) == 0:
		return nil, eris.New("xlsx: workbook has no sheets")
	default:
		ws = wb.Sheets[0]
	}

	var rows [][]string
	for _, r := range ws.Rows {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "xlsx: read rows")
		}
		if r == nil {
			continue
		}
		cells := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			cells[i] = strings.TrimSpace(c.String())
		}
		if !blankRow(cells) {
			rows = append(rows, cells)
		}
	}
	return rows, nil
}
