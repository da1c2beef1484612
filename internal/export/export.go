// Package export writes directory records to timestamped CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoRows is returned when there is nothing to export. No file is written.
var ErrNoRows = errors.New("no rows to export")

const timestampLayout = "20060102_150405"

// Exporter writes CSV files into a directory.
type Exporter struct {
	dir    string
	now    func() time.Time
	logger zerolog.Logger
}

// New creates an exporter writing into dir. The directory is created on
// first write.
func New(dir string) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{
		dir:    dir,
		now:    time.Now,
		logger: log.With().Str("component", "export").Logger(),
	}
}

// Dir returns the output directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// WriteRecords exports raw records. The header is the sorted union of all
// record keys.
func (e *Exporter) WriteRecords(prefix string, rows []map[string]any) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}

	seen := make(map[string]struct{})
	var columns []string
	for _, row := range rows {
		for name := range row {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			columns = append(columns, name)
		}
	}
	sort.Strings(columns)

	return e.WriteTable(prefix, columns, rows)
}

// WriteTable exports rows with an explicit column order. Missing values are
// written as empty cells; non-scalar values are JSON-encoded.
func (e *Exporter) WriteTable(prefix string, columns []string, rows []map[string]any) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.csv", prefix, e.now().Format(timestampLayout))
	path := filepath.Join(e.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = formatCell(row[column])
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}

	e.logger.Info().
		Str("file", path).
		Int("rows", len(rows)).
		Int("columns", len(columns)).
		Msg("CSV export written")

	return filename, nil
}

func formatCell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		if value {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(encoded)
	}
}
