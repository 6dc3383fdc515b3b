package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// CSVSource reads samples from a comma-separated file with a header row.
// Feature columns are matched by header name so extra columns are ignored;
// the label column must be last unless named "label".
type CSVSource struct {
	Path string
}

// NewCSVSource creates a source for the given file path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Load parses the file into a Dataset. Any structural problem (missing
// feature column, short row, non-numeric value) surfaces as a FormatError
// and aborts the load.
func (c *CSVSource) Load() (*Dataset, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", c.Path)
	}
	defer f.Close()

	return c.read(f)
}

func (c *CSVSource) read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.NewFormatError(c.Path, -1, "missing header row")
	}

	featCol, labelCol, err := c.mapColumns(header)
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewFormatError(c.Path, row, err.Error())
		}

		var s Sample
		for j, col := range featCol {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil {
				return nil, errors.NewFormatError(c.Path, row,
					"non-numeric value for "+Features[j].Name+": "+record[col])
			}
			s.Values[j] = v
		}
		s.Label = strings.TrimSpace(record[labelCol])
		if s.Label == "" {
			return nil, errors.NewFormatError(c.Path, row, "empty label")
		}
		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return nil, errors.NewFormatError(c.Path, -1, "no data rows")
	}
	return New(samples)
}

// mapColumns resolves header names to column indices. All four feature
// columns must be present; the label column is the one named "label", or the
// last column as a fallback.
func (c *CSVSource) mapColumns(header []string) ([NumFeatures]int, int, error) {
	var featCol [NumFeatures]int
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for j, f := range Features {
		col, ok := byName[f.Name]
		if !ok {
			return featCol, 0, errors.NewFormatError(c.Path, -1, "missing column "+f.Name)
		}
		featCol[j] = col
	}

	labelCol, ok := byName["label"]
	if !ok {
		labelCol = len(header) - 1
	}
	return featCol, labelCol, nil
}
