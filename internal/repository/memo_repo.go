package repository

import (
	"github.com/memoapp/memo-server/internal/domain"
	"gorm.io/gorm"
)

// MemoRepository memo data access
type MemoRepository interface {
	Create(memo *domain.Memo) error
	FindByID(idx uint64) (*domain.Memo, error)
	Update(memo *domain.Memo) error
	Delete(idx uint64) (int64, error)
	ListByOwner(userIdx uint64) ([]domain.MemoListItem, error)
	FindByGroup(groupIdx uint64) ([]domain.Memo, error)
	DeleteByGroup(groupIdx uint64) (int64, error)
	Pin(idx, userIdx uint64) error
	Unpin(idx uint64) error
}

type memoRepository struct {
	db *gorm.DB
}

// NewMemoRepository creates a new MemoRepository
func NewMemoRepository(db *gorm.DB) MemoRepository {
	return &memoRepository{db: db}
}

func (r *memoRepository) Create(memo *domain.Memo) error {
	return r.db.Create(memo).Error
}

func (r *memoRepository) FindByID(idx uint64) (*domain.Memo, error) {
	var memo domain.Memo
	if err := r.db.Where("idx = ?", idx).First(&memo).Error; err != nil {
		return nil, err
	}
	return &memo, nil
}

// Update persists title/contents/attachment changes and advances updated_at
func (r *memoRepository) Update(memo *domain.Memo) error {
	return r.db.Save(memo).Error
}

func (r *memoRepository) Delete(idx uint64) (int64, error) {
	res := r.db.Where("idx = ?", idx).Delete(&domain.Memo{})
	return res.RowsAffected, res.Error
}

// ListByOwner returns the user's memos in canonical display order:
// pinned first (ascending pin_order), then unpinned newest-first.
func (r *memoRepository) ListByOwner(userIdx uint64) ([]domain.MemoListItem, error) {
	var items []domain.MemoListItem
	err := r.db.Model(&domain.Memo{}).
		Select("memo_t.*, group_t.group_name").
		Joins("JOIN group_t ON memo_t.group_idx_t = group_t.idx").
		Where("memo_t.user_idx_t = ?", userIdx).
		Order("memo_t.is_pinned DESC, memo_t.pin_order ASC, memo_t.created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *memoRepository) FindByGroup(groupIdx uint64) ([]domain.Memo, error) {
	var memos []domain.Memo
	err := r.db.Where("group_idx_t = ?", groupIdx).Find(&memos).Error
	return memos, err
}

func (r *memoRepository) DeleteByGroup(groupIdx uint64) (int64, error) {
	res := r.db.Where("group_idx_t = ?", groupIdx).Delete(&domain.Memo{})
	return res.RowsAffected, res.Error
}

// Pin marks a memo pinned with the next ordinal for its owner.
// The ordinal comes from an atomically incremented per-owner sequence, so two
// concurrent pins can never observe the same value. Both columns flip in one
// UPDATE, and UpdateColumns keeps updated_at untouched: pin toggles are not
// content mutations.
func (r *memoRepository) Pin(idx, userIdx uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).Where("idx = ?", userIdx).
			UpdateColumn("pin_seq", gorm.Expr("pin_seq + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var user domain.User
		if err := tx.Select("pin_seq").Where("idx = ?", userIdx).First(&user).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Memo{}).Where("idx = ?", idx).
			UpdateColumns(map[string]interface{}{
				"is_pinned": true,
				"pin_order": user.PinSeq,
			}).Error
	})
}

// Unpin clears the pinned flag and the ordinal together
func (r *memoRepository) Unpin(idx uint64) error {
	return r.db.Model(&domain.Memo{}).Where("idx = ?", idx).
		UpdateColumns(map[string]interface{}{
			"is_pinned": false,
			"pin_order": nil,
		}).Error
}
