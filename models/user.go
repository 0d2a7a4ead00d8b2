package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleMember = "member"
	RoleLeader = "leader"
	RoleAdmin  = "admin"
)

type User struct {
	gorm.Model
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	Password       string     `gorm:"not null" json:"-"`
	Gender         *string    `json:"gender,omitempty"`
	Height         *float64   `json:"height,omitempty"` // cm
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Role           string     `gorm:"not null;default:member" json:"role"`
	GroupID        *uint      `json:"group_id,omitempty"`
	TargetWeight   *float64   `json:"target_weight,omitempty"` // kg
	TargetBMI      *float64   `json:"target_bmi,omitempty"`
	ProfilePicture string     `json:"profile_picture,omitempty"`

	Records []HealthRecord `gorm:"foreignKey:UserID" json:"-"`
}

// IsLeader reports whether the user leads a group: leader role alone is not
// enough, the group reference must be set as well.
func (u *User) IsLeader() bool {
	return u.Role == RoleLeader && u.GroupID != nil
}
