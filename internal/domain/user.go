package domain

import "time"

// User represents an account row. Passwords are stored and compared as
// plain text, matching the legacy schema this server fronts.
type User struct {
	Idx       uint64    `gorm:"column:idx;primaryKey;autoIncrement" json:"user_idx"`
	UserID    string    `gorm:"column:user_id;size:50;uniqueIndex;not null" json:"user_id"`
	UserPW    string    `gorm:"column:user_pw;size:255;not null" json:"-"`
	Nickname  string    `gorm:"column:nickname;size:50" json:"nickname"`
	PinSeq    uint64    `gorm:"column:pin_seq;not null;default:0" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

// TableName returns the table name
func (User) TableName() string {
	return "user_t"
}

// SignupRequest signup payload
type SignupRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	UserPW   string `json:"user_pw" binding:"required"`
	Nickname string `json:"nickname"`
}

// LoginRequest login payload
type LoginRequest struct {
	UserID string `json:"user_id" binding:"required"`
	UserPW string `json:"user_pw" binding:"required"`
}

// LoginResponse login result with API token
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
