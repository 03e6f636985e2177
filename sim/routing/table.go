package routing

import (
	"fmt"
	"sort"

	"github.com/senere/senere/sim/topology"
)

// OrderField names a RouteRecord field results can be sorted by.
type OrderField string

const (
	OrderNone     OrderField = ""
	OrderSource   OrderField = "source"
	OrderNextHop  OrderField = "next_hop"
	OrderGateway  OrderField = "gateway"
	OrderDistance OrderField = "distance"
	OrderStatic   OrderField = "static"
)

var orderKeys = map[OrderField]func(a, b RouteRecord) bool{
	OrderSource:   func(a, b RouteRecord) bool { return a.Source < b.Source },
	OrderNextHop:  func(a, b RouteRecord) bool { return a.NextHop < b.NextHop },
	OrderGateway:  func(a, b RouteRecord) bool { return a.Gateway < b.Gateway },
	OrderDistance: func(a, b RouteRecord) bool { return a.Distance < b.Distance },
	OrderStatic:   func(a, b RouteRecord) bool { return !a.Static && b.Static },
}

// IsValidOrderField reports whether field is empty or names a sortable field.
func IsValidOrderField(field string) bool {
	if field == string(OrderNone) {
		return true
	}
	_, ok := orderKeys[OrderField(field)]
	return ok
}

// Table stores exactly one RouteRecord per source address.
//
// Thread-safety: NOT thread-safe. A table belongs to a single simulation run.
type Table struct {
	records map[topology.Address]RouteRecord
}

// NewTable creates an empty routing table.
func NewTable() *Table {
	return &Table{records: make(map[topology.Address]RouteRecord)}
}

// Add inserts r, overwriting any record with the same source.
func (t *Table) Add(r RouteRecord) {
	t.records[r.Source] = r
}

// Remove deletes the record of addr and returns the number of removed
// records (0 or 1).
func (t *Table) Remove(addr topology.Address) int {
	if _, ok := t.records[addr]; !ok {
		return 0
	}
	delete(t.records, addr)
	return 1
}

// Replace drops every record and inserts routes in order (last write wins).
func (t *Table) Replace(routes []RouteRecord) {
	t.records = make(map[topology.Address]RouteRecord, len(routes))
	for _, r := range routes {
		t.records[r.Source] = r
	}
}

// Get returns the record of addr.
func (t *Table) Get(addr topology.Address) (RouteRecord, error) {
	r, ok := t.records[addr]
	if !ok {
		return RouteRecord{}, fmt.Errorf("route for %d: %w", addr, topology.ErrAddressNotFound)
	}
	return r, nil
}

// Has reports whether addr holds a record.
func (t *Table) Has(addr topology.Address) bool {
	_, ok := t.records[addr]
	return ok
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// All returns every record ordered by source, then stably by field.
func (t *Table) All(field OrderField) []RouteRecord {
	return t.Filter(OrderBy(field))
}

// FilterOption narrows or orders the result of Filter.
type FilterOption func(*query)

type query struct {
	preds []func(RouteRecord) bool
	order OrderField
}

// BySource keeps records whose source is addr.
func BySource(addr topology.Address) FilterOption {
	return func(q *query) {
		q.preds = append(q.preds, func(r RouteRecord) bool { return r.Source == addr })
	}
}

// ByNextHop keeps records forwarding to addr.
func ByNextHop(addr topology.Address) FilterOption {
	return func(q *query) {
		q.preds = append(q.preds, func(r RouteRecord) bool { return r.NextHop == addr })
	}
}

// ByAddress keeps records whose source or next hop is addr.
func ByAddress(addr topology.Address) FilterOption {
	return func(q *query) {
		q.preds = append(q.preds, func(r RouteRecord) bool { return r.Source == addr || r.NextHop == addr })
	}
}

// ByStatic keeps records with the given static flag.
func ByStatic(static bool) FilterOption {
	return func(q *query) {
		q.preds = append(q.preds, func(r RouteRecord) bool { return r.Static == static })
	}
}

// ByDistance keeps records at exactly d hops.
func ByDistance(d int) FilterOption {
	return func(q *query) {
		q.preds = append(q.preds, func(r RouteRecord) bool { return r.Distance == d })
	}
}

// OrderBy sorts the result by field. Unknown fields leave source order.
func OrderBy(field OrderField) FilterOption {
	return func(q *query) { q.order = field }
}

// Filter returns the records matching every option, ordered by source and
// then stably by the requested field.
func (t *Table) Filter(opts ...FilterOption) []RouteRecord {
	q := &query{}
	for _, opt := range opts {
		opt(q)
	}
	out := make([]RouteRecord, 0, len(t.records))
next:
	for _, r := range t.records {
		for _, pred := range q.preds {
			if !pred(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	if less, ok := orderKeys[q.order]; ok {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}
