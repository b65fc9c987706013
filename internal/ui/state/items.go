package state

// Item is one row of a list: a roster contact or a search result.
type Item struct {
	ID       string
	Label    string
	Detail   string
	Presence string
	Online   bool
}

// CloneItems produces a shallow copy of items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
