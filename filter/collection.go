package filter

import (
	"net/url"
)

// Collection is an ordered set of committed filters. Insertion order is
// the serialization order. The owning request builder plugs in a return
// value producer that is consulted each time a filter commits, so callers
// can keep chaining on the builder after a comparator call.
type Collection struct {
	filters  []*Filter
	returnFn func() interface{}
}

// NewCollection creates an empty filter collection with no return hook
func NewCollection() *Collection {
	return &Collection{}
}

// SetReturn registers the producer consulted by GetReturn. Passing nil
// clears the hook.
func (c *Collection) SetReturn(fn func() interface{}) {
	c.returnFn = fn
}

// GetReturn yields the value handed back to chained callers after a
// filter commits. Without a registered hook it returns nil.
func (c *Collection) GetReturn() interface{} {
	if c.returnFn == nil {
		return nil
	}
	return c.returnFn()
}

// Add inserts the filter into the collection. A filter already present
// (by identity) keeps its original slot, so repeated comparator calls on
// the same filter do not reorder the collection.
func (c *Collection) Add(f *Filter) {
	for _, existing := range c.filters {
		if existing == f {
			return
		}
	}
	c.filters = append(c.filters, f)
}

// Len returns the number of committed filters
func (c *Collection) Len() int {
	return len(c.filters)
}

// List returns the committed filters in insertion order
func (c *Collection) List() []*Filter {
	out := make([]*Filter, len(c.filters))
	copy(out, c.filters)
	return out
}

// QueryParams renders every committed filter into its canonical token, in
// insertion order
func (c *Collection) QueryParams() ([]string, error) {
	params := make([]string, 0, len(c.filters))
	for _, f := range c.filters {
		param, err := f.QueryParamFormat()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return params, nil
}

// QueryValues renders the collection into url.Values with one "filter"
// entry per committed filter, ready to merge into a request query string
func (c *Collection) QueryValues() (url.Values, error) {
	params, err := c.QueryParams()
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	for _, param := range params {
		values.Add("filter", param)
	}
	return values, nil
}
