// Package accounts manages the gateway accounts messages are sent through.
// At most one account is active at a time.
package accounts

import "time"

type Account struct {
	ID          int64  `json:"id" gorm:"column:id;primaryKey"`
	AccountName string `json:"account_name" gorm:"column:account_name;size:50;not null"`
	PhoneNumber string `json:"phone_number" gorm:"column:phone_number;size:20;not null"`
	APIKey      string `json:"api_key" gorm:"column:api_key;size:512;not null"`
	IsActive    bool   `json:"is_active" gorm:"column:is_active;not null;default:false"`
}

func (Account) TableName() string {
	return "whatsapp_accounts"
}

const activeStateID = 1

// ActiveAccountState is a single row recording which account was last
// activated. Activations lock it, so they never interleave.
type ActiveAccountState struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	AccountID *int64 `gorm:"column:account_id"`
	UpdatedAt time.Time
}

func (ActiveAccountState) TableName() string {
	return "active_account_state"
}
