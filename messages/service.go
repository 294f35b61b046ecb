package messages

import (
	"github.com/wabridge/wa-relay-api/datastore"
	"github.com/wabridge/wa-relay-api/errors"
)

type Service interface {
	List(limit, offset int, accountID *int64) ([]Message, error)
	LogSent(phone, content string, accountID int64) (*Message, error)
}

type ServiceImpl struct {
	store Store
}

func NewService(store Store) Service {
	return &ServiceImpl{store}
}

func (s *ServiceImpl) List(limit, offset int, accountID *int64) ([]Message, error) {
	o := datastore.ParseListOptions(limit, offset)

	mm, err := s.store.Messages(o, accountID)
	if err != nil {
		return nil, &errors.StorageError{Op: "list messages", Err: err}
	}

	if mm == nil {
		mm = []Message{}
	}

	return mm, nil
}

// LogSent records a message the gateway accepted.
func (s *ServiceImpl) LogSent(phone, content string, accountID int64) (*Message, error) {
	m := Message{
		Type:      TypeSent,
		Phone:     phone,
		Content:   content,
		AccountID: &accountID,
	}

	if err := s.store.InsertMessage(&m); err != nil {
		return nil, &errors.StorageError{Op: "insert message", Err: err}
	}

	return &m, nil
}
