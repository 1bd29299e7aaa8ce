package filter

import (
	"errors"
	"fmt"

	set "github.com/deckarep/golang-set/v2"
	"github.com/m-manu/rfind/entity"
)

// ErrInvalidArgument is returned for filter arguments that can't be used, like an unknown type
var ErrInvalidArgument = errors.New("invalid filter argument")

// Filter decides whether an entry is hidden from the output.
// Filters never influence which directories get traversed.
type Filter interface {
	// Rejects returns true if the entry must not be displayed
	Rejects(e entity.Entry) bool
}

// Chain is an ordered sequence of filters. An entry is displayed only if no
// filter in the chain rejects it.
type Chain []Filter

// ShouldDisplay returns true if no filter rejects the entry (always true for an empty chain)
func (c Chain) ShouldDisplay(e entity.Entry) bool {
	for _, f := range c {
		if f.Rejects(e) {
			return false
		}
	}
	return true
}

// KindFilter rejects entries of the target kind
type KindFilter struct {
	Target entity.Kind
}

func (f KindFilter) Rejects(e entity.Entry) bool {
	return e.Kind == f.Target
}

// ForType maps a find-style type argument to the filter that implements it:
// "f" shows files by rejecting directories, "d" shows directories by rejecting files.
// Entries of other kinds (e.g. symlinks) pass both.
func ForType(typeArg string) (KindFilter, error) {
	switch typeArg {
	case "f":
		return KindFilter{Target: entity.KindDirectory}, nil
	case "d":
		return KindFilter{Target: entity.KindFile}, nil
	default:
		return KindFilter{}, fmt.Errorf("%w: unknown type: %s", ErrInvalidArgument, typeArg)
	}
}

// NamePatternFilter rejects entries whose name doesn't match a shell glob
type NamePatternFilter struct {
	pattern *Pattern
}

// NewNamePatternFilter creates a NamePatternFilter after checking the pattern is well-formed
func NewNamePatternFilter(pattern string) (NamePatternFilter, error) {
	compiled, err := Compile(pattern)
	if err != nil {
		return NamePatternFilter{}, fmt.Errorf("%w: bad pattern %q: %v", ErrInvalidArgument, pattern, err)
	}
	return NamePatternFilter{pattern: compiled}, nil
}

func (f NamePatternFilter) Rejects(e entity.Entry) bool {
	return !f.pattern.Match(e.Name)
}

// ExcludedNamesFilter rejects entries whose name is in a set of excluded names
type ExcludedNamesFilter struct {
	names set.Set[string]
}

// NewExcludedNamesFilter creates an ExcludedNamesFilter
func NewExcludedNamesFilter(names set.Set[string]) ExcludedNamesFilter {
	return ExcludedNamesFilter{names: names}
}

func (f ExcludedNamesFilter) Rejects(e entity.Entry) bool {
	return f.names.Contains(e.Name)
}
