package dataset

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kozaktomas/saliency-bias/internal/config"
)

// Traits that a group can be selected by.
const (
	TraitGender = "gender"
	TraitRace   = "race"
)

var (
	ErrInvalidTrait = errors.New("invalid trait")
	ErrInvalidGroup = errors.New("invalid group")
)

var (
	validTraits []string
	validGroups []string
)

func init() {
	groups := config.LoadGroups()
	validTraits = slices.Sorted(slices.Values(groups.Traits))
	validGroups = slices.Sorted(slices.Values(groups.Groups))
}

// ValidTraits returns the accepted trait names in sorted order.
func ValidTraits() []string {
	return slices.Clone(validTraits)
}

// ValidGroups returns the accepted demographic labels in sorted order.
func ValidGroups() []string {
	return slices.Clone(validGroups)
}

// ValidateTrait rejects any trait outside the enumerated set.
func ValidateTrait(trait string) error {
	if !slices.Contains(validTraits, trait) {
		return fmt.Errorf("%w: got %q; expected one of %s", ErrInvalidTrait, trait, quoteAll(validTraits))
	}
	return nil
}

// ValidateGroup rejects any demographic label outside the enumerated set.
func ValidateGroup(name string) error {
	if !slices.Contains(validGroups, name) {
		return fmt.Errorf("%w: got %q; expected one of %s", ErrInvalidGroup, name, quoteAll(validGroups))
	}
	return nil
}

// CompositeName names the race+gender group, e.g. "BlackMale".
func CompositeName(race, gender string) string {
	return race + gender
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}
