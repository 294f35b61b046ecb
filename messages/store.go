package messages

import (
	"github.com/wabridge/wa-relay-api/datastore"
)

// Store manages the message log.
type Store interface {
	// List messages, newest first. accountID filters when not nil.
	Messages(o datastore.ListOptions, accountID *int64) ([]Message, error)

	// Append a message. Timestamp is set by the store.
	InsertMessage(m *Message) error
}
