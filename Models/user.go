package Models

import "time"

type User struct {
	UserID       uint      `json:"UserID" gorm:"primaryKey"`
	Username     string    `json:"Username" gorm:"size:64;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	FullName     string    `json:"FullName" gorm:"size:255;not null"`
	Email        *string   `json:"Email" gorm:"size:255"`
	PhoneNumber  *string   `json:"PhoneNumber" gorm:"size:32"`
	Address      *string   `json:"Address" gorm:"size:255"`
	Role         string    `json:"Role" gorm:"size:20;not null;default:Member"`
	CreatedAt    time.Time `json:"CreatedAt"`
}

func (User) TableName() string {
	return "users"
}

const (
	RoleMember = "Member"
	RoleAdmin  = "Admin"
)
