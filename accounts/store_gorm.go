package accounts

import (
	"github.com/wabridge/wa-relay-api/datastore"
	"github.com/wabridge/wa-relay-api/datastore/lib"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &GormStore{db}
}

func (s *GormStore) Accounts(o datastore.ListOptions) (aa []Account, err error) {
	err = s.db.
		Order("id asc").
		Limit(o.Limit).
		Offset(o.Offset).
		Find(&aa).Error
	return
}

func (s *GormStore) Account(id int64) (a Account, err error) {
	err = s.db.First(&a, "id = ?", id).Error
	return
}

func (s *GormStore) ActiveAccount() (a Account, err error) {
	err = s.db.Where("is_active = ?", true).First(&a).Error
	return
}

func (s *GormStore) InsertAccount(a *Account) error {
	return s.db.Create(a).Error
}

func (s *GormStore) SwitchActive(id int64) (bool, error) {
	activated := false

	err := lib.GormTransaction(s.db, func(tx *gorm.DB) error {
		state := ActiveAccountState{}

		// Concurrent activations queue up on this row, sqlite transactions
		// are already serialized by GormTransaction
		q := tx
		if !lib.IsSqlite(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		if err := q.FirstOrCreate(&state, ActiveAccountState{ID: activeStateID}).Error; err != nil {
			return err // rollback
		}

		if err := tx.Model(&Account{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err // rollback
		}

		res := tx.Model(&Account{}).
			Where("id = ?", id).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error // rollback
		}

		activated = res.RowsAffected > 0

		state.AccountID = nil
		if activated {
			state.AccountID = &id
		}

		return tx.Save(&state).Error
	})

	if err != nil {
		return false, err
	}

	return activated, nil
}

func (s *GormStore) ActiveState() (state ActiveAccountState, err error) {
	err = s.db.First(&state, "id = ?", activeStateID).Error
	return
}
