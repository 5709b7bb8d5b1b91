package repository

import (
	"github.com/memoapp/memo-server/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(idx uint64) (*domain.User, error)
	FindByUserID(userID string) (*domain.User, error)
	FindByCredentials(userID, userPW string) (*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(idx uint64) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("idx = ?", idx).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUserID(userID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByCredentials matches id and password by plain equality, exactly as the
// legacy login did. Password hashing is deliberately not introduced here.
func (r *userRepository) FindByCredentials(userID, userPW string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("user_id = ? AND user_pw = ?", userID, userPW).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
