package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phil-mansfield/table"
)

// ReadColumns reads the given zero-indexed columns from a whitespace-separated
// text table. Lines starting with '#' are comments.
func ReadColumns(fname string, colIdxs []int) ([][]float64, error) {
	if len(colIdxs) == 0 {
		return nil, fmt.Errorf("No columns requested from table %s.", fname)
	}
	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil {
		return nil, fmt.Errorf("Could not read table %s: %w", fname, err)
	}
	if len(cols) != len(colIdxs) {
		return nil, fmt.Errorf(
			"Read %d columns from table %s, but %d were requested.",
			len(cols), fname, len(colIdxs),
		)
	}
	for i := range cols {
		if len(cols[i]) != len(cols[0]) {
			return nil, fmt.Errorf(
				"Column %d of table %s has %d rows, but column %d has %d.",
				colIdxs[i], fname, len(cols[i]), colIdxs[0], len(cols[0]),
			)
		}
	}
	return cols, nil
}

// WriteColumns writes cols as a whitespace-separated table with an optional
// '#' header line. All columns must have the same length.
func WriteColumns(w io.Writer, header []string, cols ...[]float64) error {
	for i := range cols {
		if len(cols[i]) != len(cols[0]) {
			return fmt.Errorf(
				"Column %d has %d rows, but column 0 has %d.",
				i, len(cols[i]), len(cols[0]),
			)
		}
	}

	bw := bufio.NewWriter(w)
	if len(header) > 0 {
		if _, err := fmt.Fprintf(
			bw, "# %s\n", strings.Join(header, " "),
		); err != nil {
			return err
		}
	}

	if len(cols) == 0 {
		return bw.Flush()
	}

	buf := []byte{}
	for row := range cols[0] {
		buf = buf[:0]
		for j := range cols {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, cols[j][row], 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
