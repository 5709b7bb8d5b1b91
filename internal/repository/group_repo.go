package repository

import (
	"github.com/memoapp/memo-server/internal/domain"
	"gorm.io/gorm"
)

// GroupRepository group data access
type GroupRepository interface {
	Create(group *domain.Group) error
	FindByID(idx uint64) (*domain.Group, error)
	Rename(idx uint64, name string) (int64, error)
	Delete(idx uint64) (int64, error)
	ListByOwner(userIdx uint64) ([]domain.Group, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(group *domain.Group) error {
	return r.db.Create(group).Error
}

func (r *groupRepository) FindByID(idx uint64) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.Where("idx = ?", idx).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) Rename(idx uint64, name string) (int64, error) {
	res := r.db.Model(&domain.Group{}).Where("idx = ?", idx).Update("group_name", name)
	return res.RowsAffected, res.Error
}

func (r *groupRepository) Delete(idx uint64) (int64, error) {
	res := r.db.Where("idx = ?", idx).Delete(&domain.Group{})
	return res.RowsAffected, res.Error
}

// ListByOwner returns the user's groups, most recently created first
func (r *groupRepository) ListByOwner(userIdx uint64) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.Where("user_idx_t = ?", userIdx).
		Order("idx DESC").
		Find(&groups).Error
	return groups, err
}
