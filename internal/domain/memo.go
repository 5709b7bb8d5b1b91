package domain

import (
	"mime/multipart"
	"time"
)

// responseTimeFormat is the timestamp layout clients receive
const responseTimeFormat = "2006-01-02 15:04:05"

// Memo represents a memo row.
// Invariant: PinOrder is non-nil if and only if IsPinned is true; both
// columns are always written in the same UPDATE.
type Memo struct {
	Idx       uint64    `gorm:"column:idx;primaryKey;autoIncrement" json:"idx"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Contents  string    `gorm:"column:contents;type:text" json:"content"`
	ImageURL  *string   `gorm:"column:image_url;size:512" json:"image_url,omitempty"`
	GroupIdx  uint64    `gorm:"column:group_idx_t;index" json:"group_idx"`
	UserIdx   uint64    `gorm:"column:user_idx_t;index" json:"user_idx"`
	IsPinned  bool      `gorm:"column:is_pinned;not null;default:false" json:"is_pinned"`
	PinOrder  *uint64   `gorm:"column:pin_order" json:"pin_order"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name
func (Memo) TableName() string {
	return "memo_t"
}

// MemoListItem is a memo row joined with its group name for list responses
type MemoListItem struct {
	Memo
	GroupName string `gorm:"column:group_name" json:"group_name"`
}

// MemoResponse is the client-facing memo shape
type MemoResponse struct {
	Idx       uint64  `json:"idx"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ImageURL  *string `json:"image_url"`
	GroupIdx  uint64  `json:"group_idx"`
	GroupName string  `json:"group_name"`
	IsPinned  bool    `json:"is_pinned"`
	PinOrder  *uint64 `json:"pin_order"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// ToResponse converts a joined memo row into the client-facing shape
func (m *MemoListItem) ToResponse() *MemoResponse {
	return &MemoResponse{
		Idx:       m.Idx,
		Title:     m.Title,
		Content:   m.Contents,
		ImageURL:  m.ImageURL,
		GroupIdx:  m.GroupIdx,
		GroupName: m.GroupName,
		IsPinned:  m.IsPinned,
		PinOrder:  m.PinOrder,
		CreatedAt: m.CreatedAt.Format(responseTimeFormat),
		UpdatedAt: m.UpdatedAt.Format(responseTimeFormat),
	}
}

// MemoCreateRequest memo creation payload
type MemoCreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Contents string `json:"contents"`
	GroupIdx uint64 `json:"group_idx_t" binding:"required"`
	UserIdx  uint64 `json:"user_idx_t" binding:"required"`
}

// MemoPinRequest pin toggle payload
type MemoPinRequest struct {
	IsPinned *bool `json:"is_pinned" binding:"required"`
}

// AttachmentOpKind selects what happens to a memo's attachment on update
type AttachmentOpKind int

const (
	// AttachmentKeep leaves the current attachment untouched
	AttachmentKeep AttachmentOpKind = iota
	// AttachmentReplace stores a new file and deletes the old one
	AttachmentReplace
	// AttachmentRemove deletes the current attachment
	AttachmentRemove
)

// AttachmentOp describes the attachment change requested by a memo update
type AttachmentOp struct {
	Kind AttachmentOpKind
	File *multipart.FileHeader // set when Kind == AttachmentReplace
}

// MemoUpdateRequest memo update payload (multipart form fields)
type MemoUpdateRequest struct {
	Title    string
	Contents string
	Op       AttachmentOp
}
