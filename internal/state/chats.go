package state

import "github.com/atomicstack/controlbox/internal/backend"

// ChatBoxType is the chat list type whose unread messages count towards the
// contacts tab.
const ChatBoxType = "chatbox"

type ChatStore interface {
	Entries() []backend.ChatBox
	SetEntries([]backend.ChatBox)
	IDs() []string
	TotalUnread() int
}

type chatStore struct {
	entries []backend.ChatBox
}

func NewChatStore() ChatStore {
	return &chatStore{}
}

func (s *chatStore) Entries() []backend.ChatBox {
	return cloneChatBoxes(s.entries)
}

func (s *chatStore) SetEntries(entries []backend.ChatBox) {
	s.entries = cloneChatBoxes(entries)
}

func (s *chatStore) IDs() []string {
	ids := make([]string, len(s.entries))
	for i, box := range s.entries {
		ids[i] = box.ID
	}
	return ids
}

// TotalUnread sums unread messages over one-to-one chats.
func (s *chatStore) TotalUnread() int {
	total := 0
	for _, box := range s.entries {
		if box.Type == ChatBoxType {
			total += box.Unread
		}
	}
	return total
}

func cloneChatBoxes(entries []backend.ChatBox) []backend.ChatBox {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]backend.ChatBox, len(entries))
	copy(dup, entries)
	return dup
}
