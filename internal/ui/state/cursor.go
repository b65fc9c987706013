package state

// MoveCursorUp moves the cursor one row up.
func (l *List) MoveCursorUp() bool { return l.moveCursorBy(-1) }

// MoveCursorDown moves the cursor one row down.
func (l *List) MoveCursorDown() bool { return l.moveCursorBy(1) }

// MoveCursorHome moves the cursor to the first row.
func (l *List) MoveCursorHome() bool { return l.moveCursorTo(0) }

// MoveCursorEnd moves the cursor to the last row.
func (l *List) MoveCursorEnd() bool { return l.moveCursorTo(len(l.Items) - 1) }

// MoveCursorPageUp moves the cursor up by a page of maxVisible rows.
func (l *List) MoveCursorPageUp(maxVisible int) bool {
	return l.moveCursorBy(-l.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by a page of maxVisible rows.
func (l *List) MoveCursorPageDown(maxVisible int) bool {
	return l.moveCursorBy(l.pageSize(maxVisible))
}

func (l *List) moveCursorBy(delta int) bool {
	return l.moveCursorTo(l.Cursor + delta)
}

func (l *List) moveCursorTo(idx int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(l.Items) {
		idx = len(l.Items) - 1
	}
	old := l.Cursor
	l.Cursor = idx
	return old != idx
}

func (l *List) pageSize(maxVisible int) int {
	size := maxVisible
	if size <= 0 || size > len(l.Items) {
		size = len(l.Items)
	}
	if size < 1 {
		size = 1
	}
	return size
}

// EnsureCursorVisible adjusts the viewport so the cursor row is within the
// maxVisible rows shown.
func (l *List) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 || maxVisible <= 0 {
		l.ViewportOffset = 0
		if len(l.Items) == 0 {
			l.Cursor = 0
		}
		return
	}
	l.moveCursorTo(l.Cursor)
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	switch {
	case l.Cursor < l.ViewportOffset:
		l.ViewportOffset = l.Cursor
	case l.Cursor >= l.ViewportOffset+maxVisible:
		l.ViewportOffset = l.Cursor - maxVisible + 1
	}
	if l.ViewportOffset > maxOffset {
		l.ViewportOffset = maxOffset
	}
	if l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
}

// Visible returns the rows inside the viewport.
func (l *List) Visible(maxVisible int) []Item {
	if maxVisible <= 0 || maxVisible >= len(l.Items) {
		return l.Items
	}
	end := l.ViewportOffset + maxVisible
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return l.Items[l.ViewportOffset:end]
}
