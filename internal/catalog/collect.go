package catalog

// Collector applies filter, offset and limit to a scan in key order.
type Collector struct {
	filter *Filter
	skip   int
	limit  int
	items  []Item
}

// NewCollector prepares a page of at most limit matches after skipping offset.
func NewCollector(filter *Filter, offset, limit int) *Collector {
	capacity := limit
	if capacity > 64 {
		capacity = 64
	}
	return &Collector{filter: filter, skip: offset, limit: limit, items: make([]Item, 0, capacity)}
}

// Add offers the next scanned item and reports whether the scan should go on.
func (c *Collector) Add(it Item) bool {
	if len(c.items) >= c.limit {
		return false
	}
	if !c.filter.Match(it) {
		return true
	}
	if c.skip > 0 {
		c.skip--
		return true
	}
	c.items = append(c.items, it)
	return len(c.items) < c.limit
}

// Items returns the collected page.
func (c *Collector) Items() []Item { return c.items }
