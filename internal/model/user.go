package model

import "time"

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username   string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Password   string    `gorm:"size:120;not null" json:"-"`
	Role       UserRole  `gorm:"type:enum('student','teacher','admin');default:'student'" json:"role"`
	LastGrade  string    `gorm:"size:20" json:"lastGrade"`
	LastCourse string    `gorm:"size:40" json:"lastCourse"`
	LastLogin  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
