package fetcher

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

const utf8BOM = "\uFEFF"

// ReadCSV reads every record of a firm list. A leading byte-order mark is
// dropped, the delimiter is sniffed from the header line (comma, semicolon
// or tab) and blank rows are skipped. Cells are trimmed.
func ReadCSV(ctx context.Context, r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, eris.Wrap(err, "csv: peek header")
	}
	if strings.HasPrefix(string(header), utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		header = header[len(utf8BOM):]
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(string(header))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "csv: context cancelled")
		}
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrapf(err, "csv: read row %d", len(rows)+1)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if !blankRow(record) {
			rows = append(rows, record)
		}
	}
}

// sniffDelimiter picks the most frequent candidate delimiter in the first
// line, preferring comma on ties.
func sniffDelimiter(text string) rune {
	line, _, _ := strings.Cut(text, "\n")
	best, bestCount := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
