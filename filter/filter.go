// Package filter implements the chainable comparator DSL used to build
// query filters against collection endpoints. A Filter is staged with On
// and finalized by a comparator method, which commits it into its owning
// Collection and hands back the collection's return value so the caller
// can resume its request chain.
package filter

import (
	"fmt"
	"strings"

	"github.com/HISPSA/d2/errors"
)

// Comparator is the short token embedded in a serialized filter string
type Comparator string

// Comparator tokens understood by the web API
const (
	ComparatorLike           Comparator = "like"
	ComparatorILike          Comparator = "ilike"
	ComparatorEqual          Comparator = "eq"
	ComparatorNotEqual       Comparator = "ne"
	ComparatorGreaterThan    Comparator = "gt"
	ComparatorGreaterOrEqual Comparator = "ge"
	ComparatorLessThan       Comparator = "lt"
	ComparatorLessOrEqual    Comparator = "le"
	ComparatorIn             Comparator = "in"
)

// DefaultProperty is the property a fresh Filter targets before On runs
const DefaultProperty = "name"

// Validation messages, stable across releases
const (
	msgPropertyNameRequired = "Property name to filter on should be provided"
	msgFilterValueRequired  = "filterValue should be provided"
)

// Filter is a mutable builder for a single property:comparator:value
// token. It is bound to exactly one Collection at construction and is not
// goroutine-safe; filters are built synchronously while assembling a
// request.
type Filter struct {
	propertyName string
	comparator   Comparator
	filterValue  string
	complete     bool
	collection   *Collection
}

// New creates a Filter bound to the given collection. A nil collection is
// replaced with a fresh one so the zero entry point stays usable.
func New(collection *Collection) *Filter {
	if collection == nil {
		collection = NewCollection()
	}
	return &Filter{
		propertyName: DefaultProperty,
		comparator:   ComparatorLike,
		collection:   collection,
	}
}

// GetFilter returns a new Filter bound to a fresh collection context, for
// call sites where no pre-existing collection is threaded in.
func GetFilter() *Filter {
	return New(nil)
}

// On sets the property the filter applies to and returns the same Filter
// for chaining into a comparator method.
func (f *Filter) On(propertyName string) (*Filter, error) {
	if propertyName == "" {
		return nil, errors.Wrap(errors.ErrValidation, msgPropertyNameRequired)
	}

	f.propertyName = propertyName
	return f, nil
}

// PropertyName returns the property the filter currently targets
func (f *Filter) PropertyName() string {
	return f.propertyName
}

// Comparator returns the comparator token currently set
func (f *Filter) Comparator() Comparator {
	return f.comparator
}

// FilterValue returns the value set by the last comparator method
func (f *Filter) FilterValue() string {
	return f.filterValue
}

// Collection returns the collection this filter commits into
func (f *Filter) Collection() *Collection {
	return f.collection
}

// Like finalizes the filter with the case-sensitive like comparator
func (f *Filter) Like(filterValue string) (interface{}, error) {
	return f.finalize(ComparatorLike, filterValue)
}

// ILike finalizes the filter with the case-insensitive like comparator
func (f *Filter) ILike(filterValue string) (interface{}, error) {
	return f.finalize(ComparatorILike, filterValue)
}

// Equals finalizes the filter with the eq comparator
func (f *Filter) Equals(filterValue string) (interface{}, error) {
	return f.finalize(ComparatorEqual, filterValue)
}

// NotEqual finalizes the filter with the ne comparator
func (f *Filter) NotEqual(filterValue string) (interface{}, error) {
	return f.finalize(ComparatorNotEqual, filterValue)
}

// GreaterThan finalizes the filter with the gt comparator
func (f *Filter) GreaterThan(filterValue string) (interface{}, error) {
	return f.finalize(ComparatorGreaterThan, filterValue)
}

// GreaterOrEqual finalizes the filter with the ge comparator
func (f *Filter) GreaterOrEqual(filterValue string) (interface{}, error) {
	return f.finalize(ComparatorGreaterOrEqual, filterValue)
}

// LessThan finalizes the filter with the lt comparator
func (f *Filter) LessThan(filterValue string) (interface{}, error) {
	return f.finalize(ComparatorLessThan, filterValue)
}

// LessOrEqual finalizes the filter with the le comparator
func (f *Filter) LessOrEqual(filterValue string) (interface{}, error) {
	return f.finalize(ComparatorLessOrEqual, filterValue)
}

// In finalizes the filter with the in comparator over the given values,
// serialized in the API's bracketed list form
func (f *Filter) In(filterValues []string) (interface{}, error) {
	if len(filterValues) == 0 {
		return nil, errors.Wrap(errors.ErrValidation, msgFilterValueRequired)
	}
	return f.finalize(ComparatorIn, "["+strings.Join(filterValues, ",")+"]")
}

// finalize validates the value, records comparator and value, commits the
// filter into its collection, and yields the collection's return value.
// Validation happens before any mutation so a failed call leaves the
// filter untouched.
func (f *Filter) finalize(comparator Comparator, filterValue string) (interface{}, error) {
	if filterValue == "" {
		return nil, errors.Wrap(errors.ErrValidation, msgFilterValueRequired)
	}

	f.comparator = comparator
	f.filterValue = filterValue
	f.complete = true

	f.collection.Add(f)
	return f.collection.GetReturn(), nil
}

// QueryParamFormat renders the committed filter as the canonical
// "property:comparator:value" token. Calling it before a comparator
// method has run is a programming error and fails fast rather than
// emitting a malformed token.
func (f *Filter) QueryParamFormat() (string, error) {
	if !f.complete {
		return "", errors.Wrap(errors.ErrIllegalState,
			"no filter value has been set; call a comparator method before serializing")
	}
	return fmt.Sprintf("%s:%s:%s", f.propertyName, f.comparator, f.filterValue), nil
}
