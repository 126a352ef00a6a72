package model

import "time"

type User struct {
	ID         string  `json:"id" gorm:"primaryKey"`
	Email      string  `json:"email" gorm:"unique"`
	Username   string  `json:"username" gorm:"unique;not null"`
	Password   string  `json:"-"`
	Role       string  `json:"role" gorm:"default:student"` // admin, guardian, student
	GuardianID *string `json:"guardian_id"`                 // set for student accounts linked to a guardian
	LastLogin  time.Time
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
