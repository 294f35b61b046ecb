package m20261016

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//
// Initial schema. Types are snapshot here so later migrations can roll back
// to this exact state.
//

const ID = "20261016"

type Account struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	AccountName string `gorm:"column:account_name;size:50;not null"`
	PhoneNumber string `gorm:"column:phone_number;size:20;not null"`
	APIKey      string `gorm:"column:api_key;size:512;not null"`
	IsActive    bool   `gorm:"column:is_active;not null;default:false"`
}

func (Account) TableName() string {
	return "whatsapp_accounts"
}

type Message struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Type      string    `gorm:"column:type;size:10;not null;check:chk_messages_type,type IN ('sent','received')"`
	Phone     string    `gorm:"column:phone;size:20;not null"`
	Content   string    `gorm:"column:content;type:text"`
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime"`
	AccountID *int64    `gorm:"column:account_id;index"`
	Account   *Account  `gorm:"foreignKey:AccountID;references:ID"`
}

func (Message) TableName() string {
	return "messages"
}

type ActiveAccountState struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	AccountID *int64 `gorm:"column:account_id"`
	UpdatedAt time.Time
}

func (ActiveAccountState) TableName() string {
	return "active_account_state"
}

type Settings struct {
	gorm.Model
	MaintenanceMode bool         `gorm:"column:maintenance_mode;default:false"`
	PausedSince     sql.NullTime `gorm:"column:paused_since"`
}

func (Settings) TableName() string {
	return "system_settings"
}

type IdempotencyKey struct {
	Key        string    `gorm:"column:key;primaryKey;size:255"`
	ExpiryDate time.Time `gorm:"column:expiry_date;index"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

func Migrate(tx *gorm.DB) error {
	if err := tx.AutoMigrate(
		&Account{},
		&Message{},
		&ActiveAccountState{},
		&Settings{},
		&IdempotencyKey{},
	); err != nil {
		return err
	}

	// The single row every activation locks
	return tx.Create(&ActiveAccountState{ID: 1}).Error
}

func Rollback(tx *gorm.DB) error {
	return tx.Migrator().DropTable(
		&IdempotencyKey{},
		&Settings{},
		&ActiveAccountState{},
		&Message{},
		&Account{},
	)
}
