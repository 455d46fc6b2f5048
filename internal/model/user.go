// File: internal/model/user.go
package model

import "time"

type User struct {
	ID           int       `db:"id" json:"id" gorm:"primaryKey"`
	Name         string    `db:"name" json:"name" gorm:"size:255;not null"`
	Email        string    `db:"email" json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `db:"password_hash" json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserUpdate 部分更新欄位，nil 表示不變更
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// IsEmpty 回報是否沒有任何欄位需要更新
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordHash == nil
}
