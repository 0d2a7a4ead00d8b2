package models

import "gorm.io/gorm"

// Group ties a leader to its members through cross-references on User.
// Both sides are only ever written together inside one transaction by the
// group service, so the leader's Role/GroupID and the group's LeaderID
// cannot drift apart.
type Group struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	LeaderID *uint  `json:"leader_id,omitempty"`

	Leader  *User  `gorm:"foreignKey:LeaderID" json:"-"`
	Members []User `gorm:"foreignKey:GroupID" json:"-"`
}
