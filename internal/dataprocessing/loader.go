package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
	"github.com/samber/lo"
	"golang.org/x/text/encoding/charmap"

	"ysianalyzer/internal/errors"
	"ysianalyzer/pkg/contracts/domain"
)

// sniffBytes bounds how much of an upload the delimiter detector looks at.
const sniffBytes = 16 * 1024

// MissingColumnsError reports an upload that parsed but lacks one of the
// columns the pipeline reads.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// LoadRawTable reads an instrument export: ISO-8859-1 text, delimiter
// sniffed from the content, first non-empty line as header. The table must
// carry the Chemistry, Concentration and Well Id columns. A row with more
// non-blank fields than the header is rejected; duplicate header names are
// renamed as domain.UniqueHeaders does.
func LoadRawTable(r io.Reader) (*domain.RawTable, error) {
	data, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(r))
	if err != nil {
		return nil, errors.NewParsingError("decode upload", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParsingError("upload is empty", nil)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		headers []string
		rows    [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("read delimited text", err)
		}
		if headers == nil {
			headers = make([]string, len(record))
			for i, h := range record {
				headers[i] = cleanHeader(h)
			}
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(record) > len(headers) {
			overflow := lo.ContainsBy(record[len(headers):], func(cell string) bool {
				return strings.TrimSpace(cell) != ""
			})
			if overflow {
				return nil, errors.NewParsingError(fmt.Sprintf(
					"line %d has %d fields but the header has %d", line, len(record), len(headers)), nil)
			}
			record = record[:len(headers)]
		}
		rows = append(rows, record)
		lines = append(lines, line)
	}
	if headers == nil {
		return nil, errors.NewParsingError("upload has no header row", nil)
	}

	table := domain.NewRawTableAt(headers, rows, lines)
	if missing := table.MissingColumns(domain.RequiredColumns...); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return table, nil
}

// delimiters are the separators instrument exports are known to use, in
// order of preference.
var delimiters = []rune{',', '\t', ';', '|'}

// DetectDelimiter guesses the field separator of delimited text. Only known
// separators are accepted from the detector; when it offers none or several,
// the one occurring most often in the header line wins, defaulting to comma.
func DetectDelimiter(data []byte) rune {
	sample := data
	if len(sample) > sniffBytes {
		sample = sample[:sniffBytes]
		if i := bytes.LastIndexByte(sample, '\n'); i > 0 {
			sample = sample[:i+1]
		}
	}

	detected := detector.New().DetectDelimiter(bytes.NewReader(sample), '"')
	candidates := lo.Filter(delimiters, func(d rune, _ int) bool {
		return lo.Contains(detected, string(d))
	})
	if len(candidates) == 1 {
		return candidates[0]
	}
	if len(candidates) == 0 {
		candidates = delimiters
	}

	header := sample
	if i := bytes.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}
	best, bestCount := ',', 0
	for _, d := range candidates {
		if n := bytes.Count(header, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// cleanHeader strips a byte-order mark (as decoded from Latin-1 or UTF-8)
// and surrounding whitespace from a header cell.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\u00ef\u00bb\u00bf")
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.TrimSpace(h)
}
