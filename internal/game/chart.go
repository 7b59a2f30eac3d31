package game

// Chart is the set of live notes, ordered by target time.
type Chart struct {
	Notes []*Note

	nextID uint64
}

// Add appends a new note. Targets must not decrease.
func (c *Chart) Add(n Note) *Note {
	c.nextID++
	n.ID = c.nextID
	n.Outcome = Unresolved
	note := &n
	c.Notes = append(c.Notes, note)
	return note
}

// Prune drops resolved notes whose target is older than before.
func (c *Chart) Prune(before float64) {
	keep := c.Notes[:0]
	for _, n := range c.Notes {
		if n.Resolved() && n.Target < before {
			continue
		}
		keep = append(keep, n)
	}
	for i := len(keep); i < len(c.Notes); i++ {
		c.Notes[i] = nil
	}
	c.Notes = keep
}

func (c *Chart) Clear() {
	c.Notes = nil
}
