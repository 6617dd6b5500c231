package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Float parses a cell that must be numeric. Empty cells are an error so the
// caller can name the offending column.
func Float(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

// ReadColumns reads a two-column numeric text table (whitespace or comma
// separated). Lines starting with '#' and blank lines are skipped; extra
// columns are ignored.
func ReadColumns(r io.Reader) ([]float64, []float64, error) {
	var a, b []float64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("line %d: expected 2 columns, got %d", lineNo, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: column 1: %w", lineNo, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: column 2: %w", lineNo, err)
		}
		a = append(a, x)
		b = append(b, y)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(a) == 0 {
		return nil, nil, fmt.Errorf("no data rows")
	}
	return a, b, nil
}

// ReadColumnsFile is ReadColumns over a file path.
func ReadColumnsFile(path string) ([]float64, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	a, b, err := ReadColumns(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, b, nil
}
