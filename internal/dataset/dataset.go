// Package dataset loads the FairFace label tables and selects demographic groups from them.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Row is a single labelled image. Rows are never modified after Load.
type Row struct {
	File   string // image path, already prefixed with the images root
	Race   string
	Gender string
	Age    string
}

// Dataset is the concatenation of the train and validation label tables.
type Dataset struct {
	rows []Row
}

var requiredColumns = []string{"file", "race", "gender"}

// Load reads the train and validation tables, concatenates them in that order and
// rewrites every file reference to live under imagesRoot.
func Load(trainPath, valPath, imagesRoot string) (*Dataset, error) {
	train, err := readTable(trainPath, imagesRoot)
	if err != nil {
		return nil, err
	}
	val, err := readTable(valPath, imagesRoot)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(train)+len(val))
	rows = append(rows, train...)
	rows = append(rows, val...)
	return &Dataset{rows: rows}, nil
}

// New builds a dataset from rows that are already resolved, mostly for tests.
func New(rows []Row) *Dataset {
	return &Dataset{rows: append([]Row(nil), rows...)}
}

func readTable(filePath, imagesRoot string) ([]Row, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open label table: %w", err)
	}
	defer f.Close()

	rows, err := parseTable(f, imagesRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read label table %s: %w", filePath, err)
	}
	return rows, nil
}

func parseTable(r io.Reader, imagesRoot string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty table")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	ageIdx, hasAge := columns["age"]

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		row := Row{
			File:   path.Join(imagesRoot, field(record, columns["file"])),
			Race:   field(record, columns["race"]),
			Gender: field(record, columns["gender"]),
		}
		if hasAge {
			row.Age = field(record, ageIdx)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// Count returns the number of rows.
func (d *Dataset) Count() int {
	return len(d.rows)
}

// Rows returns a copy of all rows.
func (d *Dataset) Rows() []Row {
	return append([]Row(nil), d.rows...)
}

// Filter returns the files whose trait column equals value. Both arguments are
// validated before the table is scanned.
func (d *Dataset) Filter(trait, value string) ([]string, error) {
	if err := ValidateTrait(trait); err != nil {
		return nil, err
	}
	if err := ValidateGroup(value); err != nil {
		return nil, err
	}

	var files []string
	for _, row := range d.rows {
		if row.trait(trait) == value {
			files = append(files, row.File)
		}
	}
	return files, nil
}

// FilterComposite returns the files matching both the race and the gender label.
func (d *Dataset) FilterComposite(race, gender string) ([]string, error) {
	if err := ValidateGroup(race); err != nil {
		return nil, err
	}
	if err := ValidateGroup(gender); err != nil {
		return nil, err
	}

	var files []string
	for _, row := range d.rows {
		if row.Race == race && row.Gender == gender {
			files = append(files, row.File)
		}
	}
	return files, nil
}

// Counts returns the number of rows per label of the given trait.
func (d *Dataset) Counts(trait string) (map[string]int, error) {
	if err := ValidateTrait(trait); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, row := range d.rows {
		counts[row.trait(trait)]++
	}
	return counts, nil
}

func (r Row) trait(name string) string {
	switch name {
	case TraitRace:
		return r.Race
	case TraitGender:
		return r.Gender
	default:
		return ""
	}
}
