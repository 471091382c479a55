// Package table writes descriptor rows to delimited text files.
//
// Every row starts with the image name and the object index followed by one
// value per descriptor column, in the order given when the table was
// created. CSV files are comma separated; TSV and TXT files are tab
// separated.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrFormat is returned for an unknown table format or file extension.
	ErrFormat = errors.New("unsupported table format")

	// ErrColumns is returned when a row does not match the header.
	ErrColumns = errors.New("row does not match header")
)

// Formats lists the supported formats, which double as file extensions.
var Formats = []string{"csv", "tsv", "txt"}

// Delimiter returns the field separator for format.
func Delimiter(format string) (rune, error) {
	switch strings.ToLower(format) {
	case "csv":
		return ',', nil
	case "tsv", "txt":
		return '\t', nil
	}
	return 0, fmt.Errorf("%w: %q", ErrFormat, format)
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, err := Delimiter(ext); err != nil {
		return "", err
	}
	return ext, nil
}

// Writer appends rows to a table. It is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	csv     *csv.Writer
	closer  io.Closer
	columns []string
	rows    int
}

// New writes the header image, object, columns... to w and returns a
// writer for the rows.
func New(w io.Writer, format string, columns []string) (*Writer, error) {
	delim, err := Delimiter(format)
	if err != nil {
		return nil, err
	}

	cw := csv.NewWriter(w)
	cw.Comma = delim

	header := append([]string{"image", "object"}, columns...)
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	return &Writer{csv: cw, columns: columns}, nil
}

// Create opens path for writing and picks the format from its extension.
func Create(path string, columns []string) (*Writer, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating table: %w", err)
	}
	w, err := New(f, format, columns)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// Columns returns the descriptor column names, excluding image and object.
func (w *Writer) Columns() []string { return w.columns }

// Rows returns the number of rows written so far.
func (w *Writer) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// FormatValue renders a descriptor with float32 precision.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 32)
}

// Write appends one object row.
func (w *Writer) Write(image string, object int, values []float64) error {
	if len(values) != len(w.columns) {
		return fmt.Errorf("%w: %d values for %d columns", ErrColumns, len(values), len(w.columns))
	}

	record := make([]string, 0, len(values)+2)
	record = append(record, image, strconv.Itoa(object))
	for _, v := range values {
		record = append(record, FormatValue(v))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.csv.Write(record); err != nil {
		return err
	}
	w.rows++
	return nil
}

// WriteAll appends rows for consecutive objects of one image. objects[i]
// is the object index of values[i].
func (w *Writer) WriteAll(image string, objects []int, values [][]float64) error {
	for i := range values {
		if err := w.Write(image, objects[i], values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes and, for writers from Create, closes the file.
func (w *Writer) Close() error {
	err := w.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
