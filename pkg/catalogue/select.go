package catalogue

// Select resolves a selection event. Choosing the currently selected id clears
// the selection; choosing an id that is not in the catalogue also yields no
// selection. It returns the new selected id ("" for none) and its record.
func Select(c *Catalogue, current, id string) (string, *MethodRecord) {
	if id == "" || id == current {
		return "", nil
	}
	rec, ok := c.Lookup(id)
	if !ok {
		return "", nil
	}
	return id, rec
}

// Resolve returns the record for a selection, or nil when id is empty or
// unknown.
func Resolve(c *Catalogue, id string) *MethodRecord {
	if id == "" {
		return nil
	}
	rec, ok := c.Lookup(id)
	if !ok {
		return nil
	}
	return rec
}
