package auth

import "time"

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

// User is an administrative account. The public ordering flow is
// unauthenticated; accounts exist only to gate order review and import
// management.
type User struct {
	UserID         string  `gorm:"primaryKey" json:"user_id"`
	Username       string  `gorm:"uniqueIndex" json:"username"`
	Password       string  `json:"password" gorm:"-"`
	HashedPassword string  `json:"-"`
	Role           string  `gorm:"default:'admin'" json:"role"`
	Session        Session `gorm:"foreignKey:UserID" json:"-"`
}

func (Session) TableName() string { return "app_auth.sessions" }
func (User) TableName() string    { return "app_auth.users" }
