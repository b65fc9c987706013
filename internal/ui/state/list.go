package state

// List holds the rows of a pane together with its filter, cursor and
// viewport.
type List struct {
	ID             string
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewList constructs a List over items.
func NewList(id string, items []Item) *List {
	l := &List{ID: id, LastCursor: -1}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the visible index of the row with id, or -1.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// UpdateItems replaces the rows, keeping the cursor on the same row when it
// is still present.
func (l *List) UpdateItems(items []Item) {
	var currentID string
	if item, ok := l.Current(); ok {
		currentID = item.ID
	}
	l.Full = CloneItems(items)
	l.applyFilter()
	if idx := l.IndexOf(currentID); idx >= 0 {
		l.Cursor = idx
	}
	if l.ViewportOffset > len(l.Items)-1 || l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
}

// Current returns the row under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// Len returns the number of visible rows.
func (l *List) Len() int { return len(l.Items) }
