package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const trainCSV = `file,age,gender,race,service_test
train/1.jpg,50-59,Male,East Asian,True
train/2.jpg,30-39,Female,Indian,False
train/3.jpg,3-9,Female,Black,False
train/4.jpg,20-29,Male,Black,True
`

const valCSV = `file,age,gender,race,service_test
val/1.jpg,3-9,Male,East Asian,False
val/2.jpg,50-59,Female,Black,True
`

func writeTables(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	train := filepath.Join(dir, "train.csv")
	val := filepath.Join(dir, "val.csv")
	if err := os.WriteFile(train, []byte(trainCSV), 0o600); err != nil {
		t.Fatalf("failed to write train table: %v", err)
	}
	if err := os.WriteFile(val, []byte(valCSV), 0o600); err != nil {
		t.Fatalf("failed to write val table: %v", err)
	}
	return train, val
}

func TestLoad_ConcatenatesAndResolvesPaths(t *testing.T) {
	train, val := writeTables(t)

	ds, err := Load(train, val, "data/imgs")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if ds.Count() != 6 {
		t.Fatalf("expected 6 rows, got %d", ds.Count())
	}

	rows := ds.Rows()
	if rows[0].File != "data/imgs/train/1.jpg" {
		t.Errorf("expected first row to come from train table, got '%s'", rows[0].File)
	}
	if rows[5].File != "data/imgs/val/2.jpg" {
		t.Errorf("expected last row to come from val table, got '%s'", rows[5].File)
	}
	if rows[0].Age != "50-59" {
		t.Errorf("expected age to be read, got '%s'", rows[0].Age)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	train, _ := writeTables(t)

	_, err := Load(train, filepath.Join(t.TempDir(), "missing.csv"), "imgs")
	if err == nil {
		t.Fatal("expected error for missing label table")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestParseTable_MissingColumn(t *testing.T) {
	_, err := parseTable(strings.NewReader("file,race\na.jpg,Black\n"), "imgs")
	if err == nil || !strings.Contains(err.Error(), `"gender"`) {
		t.Errorf("expected missing gender column error, got %v", err)
	}
}

func TestParseTable_Empty(t *testing.T) {
	if _, err := parseTable(strings.NewReader(""), "imgs"); err == nil {
		t.Error("expected error for empty table")
	}
}

func TestFilter(t *testing.T) {
	train, val := writeTables(t)
	ds, err := Load(train, val, "imgs")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name  string
		trait string
		value string
		want  []string
	}{
		{"race black", TraitRace, "Black", []string{"imgs/train/3.jpg", "imgs/train/4.jpg", "imgs/val/2.jpg"}},
		{"race east asian", TraitRace, "East Asian", []string{"imgs/train/1.jpg", "imgs/val/1.jpg"}},
		{"gender male", TraitGender, "Male", []string{"imgs/train/1.jpg", "imgs/train/4.jpg", "imgs/val/1.jpg"}},
		{"no rows", TraitRace, "White", nil},
		{"label of other trait", TraitGender, "Black", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ds.Filter(tc.trait, tc.value)
			if err != nil {
				t.Fatalf("Filter failed: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("Filter(%s, %s) = %v; want %v", tc.trait, tc.value, got, tc.want)
			}
		})
	}
}

func TestFilter_OnlyMatchingRows(t *testing.T) {
	ds := New([]Row{
		{File: "a", Race: "Black", Gender: "Male"},
		{File: "b", Race: "White", Gender: "Male"},
		{File: "c", Race: "Black", Gender: "Female"},
	})

	for _, trait := range ValidTraits() {
		for _, group := range ValidGroups() {
			files, err := ds.Filter(trait, group)
			if err != nil {
				t.Fatalf("Filter(%s, %s) failed: %v", trait, group, err)
			}
			for _, f := range files {
				idx := slices.IndexFunc(ds.rows, func(r Row) bool { return r.File == f })
				if ds.rows[idx].trait(trait) != group {
					t.Errorf("Filter(%s, %s) returned non-matching row %s", trait, group, f)
				}
			}
		}
	}
}

func TestFilterComposite(t *testing.T) {
	ds := New([]Row{
		{File: "a", Race: "Black", Gender: "Male"},
		{File: "b", Race: "White", Gender: "Male"},
		{File: "c", Race: "Black", Gender: "Female"},
		{File: "d", Race: "Black", Gender: "Male"},
	})

	got, err := ds.FilterComposite("Black", "Male")
	if err != nil {
		t.Fatalf("FilterComposite failed: %v", err)
	}
	if !slices.Equal(got, []string{"a", "d"}) {
		t.Errorf("expected [a d], got %v", got)
	}
}

func TestFilter_RejectsInvalidInput(t *testing.T) {
	// A nil-row dataset proves validation runs before any scanning.
	ds := New(nil)

	if _, err := ds.Filter("age", "Black"); !errors.Is(err, ErrInvalidTrait) {
		t.Errorf("expected ErrInvalidTrait, got %v", err)
	}
	if _, err := ds.Filter(TraitRace, "Martian"); !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("expected ErrInvalidGroup, got %v", err)
	}
	if _, err := ds.FilterComposite("Black", "male"); !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("expected ErrInvalidGroup for lowercase label, got %v", err)
	}
}

func TestValidateGroup_ListsValidValues(t *testing.T) {
	err := ValidateGroup("Asian")
	if err == nil {
		t.Fatal("expected error")
	}
	for _, group := range ValidGroups() {
		if !strings.Contains(err.Error(), group) {
			t.Errorf("expected error to list %q, got %v", group, err)
		}
	}
}

func TestValidateTrait(t *testing.T) {
	for _, trait := range []string{"gender", "race"} {
		if err := ValidateTrait(trait); err != nil {
			t.Errorf("ValidateTrait(%q) unexpected error: %v", trait, err)
		}
	}
	for _, trait := range []string{"", "Race", "age"} {
		if err := ValidateTrait(trait); err == nil {
			t.Errorf("ValidateTrait(%q) expected error", trait)
		}
	}
}

func TestCounts(t *testing.T) {
	ds := New([]Row{
		{File: "a", Race: "Black", Gender: "Male"},
		{File: "b", Race: "White", Gender: "Male"},
		{File: "c", Race: "Black", Gender: "Female"},
	})

	counts, err := ds.Counts(TraitRace)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts["Black"] != 2 || counts["White"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestCompositeName(t *testing.T) {
	if got := CompositeName("East Asian", "Female"); got != "East AsianFemale" {
		t.Errorf("unexpected composite name '%s'", got)
	}
}
