package analysis

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/kozaktomas/saliency-bias/internal/database"
	"github.com/kozaktomas/saliency-bias/internal/imagestats"
	"gonum.org/v1/gonum/stat"
)

// Measurer measures a batch of images and tags each row with class.
type Measurer interface {
	MeasureAll(ctx context.Context, paths []string, class int) ([]imagestats.Properties, error)
}

// Row is one measured image of a property table.
type Row struct {
	Group string `json:"group"`
	imagestats.Properties
}

// Table holds the measured properties of every chosen and not-chosen image of
// a comparison. Rows are ordered group 1 chosen, group 1 not chosen, group 2
// chosen, group 2 not chosen.
type Table struct {
	Group1 string
	Group2 string
	Rows   []Row
}

// BuildPropertyTable measures the images recorded in a comparison result.
func BuildPropertyTable(ctx context.Context, r *database.ComparisonResult, m Measurer) (*Table, error) {
	parts := []struct {
		group string
		paths []string
		class int
	}{
		{r.Group1.Name, r.Group1.Chosen, imagestats.ClassChosen},
		{r.Group1.Name, r.Group1.NotChosen, imagestats.ClassNotChosen},
		{r.Group2.Name, r.Group2.Chosen, imagestats.ClassChosen},
		{r.Group2.Name, r.Group2.NotChosen, imagestats.ClassNotChosen},
	}

	table := &Table{Group1: r.Group1.Name, Group2: r.Group2.Name}
	for _, part := range parts {
		props, err := m.MeasureAll(ctx, part.paths, part.class)
		if err != nil {
			return nil, fmt.Errorf("measuring %s (class %d): %w", part.group, part.class, err)
		}
		for _, p := range props {
			table.Rows = append(table.Rows, Row{Group: part.group, Properties: p})
		}
	}
	return table, nil
}

// Correlation relates each property to the chosen class. Values are NaN when
// undefined, e.g. when every row has the same class.
type Correlation struct {
	Contrast  float64 `json:"contrast"`
	Sharpness float64 `json:"sharpness"`
	Rows      int     `json:"rows"`
}

// Correlate computes the point-biserial correlation between each property and
// the class label.
func Correlate(t *Table) Correlation {
	n := len(t.Rows)
	c := Correlation{Contrast: math.NaN(), Sharpness: math.NaN(), Rows: n}
	if n < 2 {
		return c
	}

	contrast := make([]float64, n)
	sharpness := make([]float64, n)
	class := make([]float64, n)
	for i, row := range t.Rows {
		contrast[i] = row.Contrast
		sharpness[i] = row.Sharpness
		class[i] = float64(row.Class)
	}

	c.Contrast = stat.Correlation(contrast, class, nil)
	c.Sharpness = stat.Correlation(sharpness, class, nil)
	return c
}

// TablePath is where the property table of a group pair is stored.
func TablePath(dir, group1, group2 string) string {
	return filepath.Join(dir, fmt.Sprintf("properties_%s_%s.gob", group1, group2))
}

// SaveTable writes t to its table path under dir.
func SaveTable(dir string, t *Table) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create properties directory: %w", err)
	}

	path := TablePath(dir, t.Group1, t.Group2)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := gob.NewEncoder(f).Encode(t); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode property table: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// LoadTable reads the stored property table of a group pair. A missing table
// yields an error matching os.ErrNotExist.
func LoadTable(dir, group1, group2 string) (*Table, error) {
	path := TablePath(dir, group1, group2)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no property table for %s/%s: %w", group1, group2, err)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var t Table
	if err := gob.NewDecoder(f).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode property table %s: %w", path, err)
	}
	return &t, nil
}
