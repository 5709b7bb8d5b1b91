package domain

import "time"

// Group represents a named memo group owned by one user.
// Deleting a group cascades to every memo whose group_idx_t references it.
type Group struct {
	Idx       uint64    `gorm:"column:idx;primaryKey;autoIncrement" json:"idx"`
	GroupName string    `gorm:"column:group_name;size:100;not null" json:"group_name"`
	UserIdx   uint64    `gorm:"column:user_idx_t;index" json:"user_idx"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

// TableName returns the table name
func (Group) TableName() string {
	return "group_t"
}

// GroupCreateRequest group creation payload
type GroupCreateRequest struct {
	GroupName string `json:"group_name" binding:"required"`
	UserIdx   uint64 `json:"user_idx_t" binding:"required"`
}

// GroupRenameRequest group rename payload
type GroupRenameRequest struct {
	GroupName string `json:"group_name" binding:"required"`
}
