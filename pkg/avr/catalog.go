package avr

import "sort"

// Catalog is the bidirectional source name/id mapping with per-slot
// enabled flags. It is populated exactly once, either from a static map
// at construction or by probing the device's source slots, and is
// immutable afterwards. Concurrent reads are safe once built.
type Catalog struct {
	nameToID map[string]string
	idToName map[string]string
	enabled  map[string]bool

	// order holds names in slot order so listings are deterministic.
	order []string
}

func newCatalog() *Catalog {
	return &Catalog{
		nameToID: make(map[string]string),
		idToName: make(map[string]string),
		enabled:  make(map[string]bool),
	}
}

// newStaticCatalog builds a catalog from a configured name->id map.
// Enabled flags are not collected for static catalogs; every entry is
// treated as enabled.
func newStaticCatalog(sources map[string]string) *Catalog {
	c := newCatalog()
	// Insert in id order for deterministic listings.
	byID := make(map[string]string, len(sources))
	var ids []string
	for name, id := range sources {
		byID[id] = name
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c.add(id, byID[id], true)
	}
	return c
}

// add records one slot. Later entries win on name collisions, matching
// probe order on the device.
func (c *Catalog) add(id, name string, enabled bool) {
	if _, seen := c.idToName[id]; !seen {
		c.order = append(c.order, name)
	}
	c.nameToID[name] = id
	c.idToName[id] = name
	c.enabled[id] = enabled
}

// Built reports whether any sources have been recorded. Once true,
// probing is skipped on all subsequent refreshes.
func (c *Catalog) Built() bool {
	return len(c.nameToID) > 0
}

// IDForName resolves a display name to its two-digit source id.
func (c *Catalog) IDForName(name string) (string, bool) {
	id, ok := c.nameToID[name]
	return id, ok
}

// NameForID resolves a two-digit source id to its display name.
func (c *Catalog) NameForID(id string) (string, bool) {
	name, ok := c.idToName[id]
	return name, ok
}

// Enabled reports the slot's enabled flag. Ids the catalog has no flag
// for (static catalogs collect none) count as enabled.
func (c *Catalog) Enabled(id string) bool {
	enabled, ok := c.enabled[id]
	if !ok {
		return true
	}
	return enabled
}

// Names returns the selectable source names in slot order, applying the
// filtering policy: names on the disabled list are dropped, and with
// enabledOnly set, slots the device reports disabled are dropped too.
func (c *Catalog) Names(enabledOnly bool, disabledNames []string) []string {
	if !enabledOnly && len(disabledNames) == 0 {
		out := make([]string, len(c.order))
		copy(out, c.order)
		return out
	}

	blocked := make(map[string]bool, len(disabledNames))
	for _, name := range disabledNames {
		blocked[name] = true
	}

	var out []string
	for _, name := range c.order {
		if blocked[name] {
			continue
		}
		if enabledOnly && !c.Enabled(c.nameToID[name]) {
			continue
		}
		out = append(out, name)
	}
	return out
}
