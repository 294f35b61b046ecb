package messages

import (
	"github.com/wabridge/wa-relay-api/datastore"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &GormStore{db}
}

func (s *GormStore) Messages(o datastore.ListOptions, accountID *int64) (mm []Message, err error) {
	q := s.db
	if accountID != nil {
		q = q.Where("account_id = ?", *accountID)
	}
	err = q.
		Order("id desc").
		Limit(o.Limit).
		Offset(o.Offset).
		Find(&mm).Error
	return
}

func (s *GormStore) InsertMessage(m *Message) error {
	return s.db.Create(m).Error
}
