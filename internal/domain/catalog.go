package domain

// Catalog maps category names to their records. Names iterate in the order
// they were first added; replacing a category keeps its position.
type Catalog struct {
	names      []string
	categories map[string][]*Record
}

func NewCatalog() *Catalog {
	return &Catalog{
		categories: make(map[string][]*Record),
	}
}

// Put sets the records of a category, replacing any previous records whole.
func (c *Catalog) Put(name string, records []*Record) {
	if records == nil {
		records = make([]*Record, 0)
	}
	if _, ok := c.categories[name]; !ok {
		c.names = append(c.names, name)
	}
	c.categories[name] = records
}

// Get returns the records of a category. An empty category is still present.
func (c *Catalog) Get(name string) ([]*Record, bool) {
	if c == nil {
		return nil, false
	}
	records, ok := c.categories[name]
	return records, ok
}

// Names returns the category names in iteration order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, c.Len())
	if c != nil {
		names = append(names, c.names...)
	}
	return names
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Merge puts every category of other into c, in other's order.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	for _, name := range other.names {
		c.Put(name, other.categories[name])
	}
}

// Each visits categories in order until fn returns false.
func (c *Catalog) Each(fn func(name string, records []*Record) bool) {
	if c == nil {
		return
	}
	for _, name := range c.names {
		if !fn(name, c.categories[name]) {
			return
		}
	}
}
