package models

import "time"

type Account struct {
	AccountID   string    `gorm:"primaryKey;type:text"`
	AccountName string    `gorm:"type:text"`
	Currency    string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
