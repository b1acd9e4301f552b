package models

import (
	"gorm.io/gorm"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	gorm.Model
	Username     string    `json:"username" gorm:"column:username;unique;not null"`
	Email        string    `json:"email" gorm:"column:email;unique;not null"`
	Password     string    `json:"password,omitempty" gorm:"-"` // Temporary field for password handling, never persisted
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string    `json:"phoneNumber" gorm:"column:phone_number"`
	Role         Role      `json:"role" gorm:"column:role;not null;default:'user'"`
	KycStatus    KycStatus `json:"kycStatus" gorm:"column:kyc_status;default:'pending'"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Principal builds the request principal for this user.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role, KycStatus: u.KycStatus}
}
