// Package messages is the append-only log of relayed messages.
package messages

import "time"

type Type string

const (
	TypeSent     Type = "sent"
	TypeReceived Type = "received"
)

type Message struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey"`
	Type      Type      `json:"type" gorm:"column:type;size:10;not null"`
	Phone     string    `json:"phone" gorm:"column:phone;size:20;not null"`
	Content   string    `json:"content" gorm:"column:content;type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp;autoCreateTime"`
	AccountID *int64    `json:"account_id" gorm:"column:account_id"`
}

func (Message) TableName() string {
	return "messages"
}
