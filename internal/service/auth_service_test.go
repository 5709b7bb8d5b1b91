package service

import (
	"testing"
	"time"

	"github.com/memoapp/memo-server/internal/common"
	"github.com/memoapp/memo-server/internal/domain"
	"github.com/memoapp/memo-server/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) FindByID(idx uint64) (*domain.User, error) {
	args := m.Called(idx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByUserID(userID string) (*domain.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByCredentials(userID, userPW string) (*domain.User, error) {
	args := m.Called(userID, userPW)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager("test-secret", time.Hour)
}

func TestAuthServiceSignupValidation(t *testing.T) {
	svc := NewAuthService(new(mockUserRepo), newTestJWTManager())

	_, err := svc.Signup(&domain.SignupRequest{UserID: "", UserPW: "pw"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Signup(&domain.SignupRequest{UserID: "alice", UserPW: ""})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestAuthServiceSignupDuplicate(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("FindByUserID", "alice").Return(&domain.User{Idx: 1, UserID: "alice"}, nil)

	svc := NewAuthService(userRepo, newTestJWTManager())

	_, err := svc.Signup(&domain.SignupRequest{UserID: "alice", UserPW: "pw"})
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestAuthServiceSignup(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("FindByUserID", "alice").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.MatchedBy(func(u *domain.User) bool {
		return u.UserID == "alice" && u.UserPW == "pw"
	})).Return(nil)

	svc := NewAuthService(userRepo, newTestJWTManager())

	user, err := svc.Signup(&domain.SignupRequest{UserID: "alice", UserPW: "pw", Nickname: "Alice"})
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.UserID)
	userRepo.AssertExpectations(t)
}

func TestAuthServiceLoginInvalidCredentials(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("FindByCredentials", "alice", "wrong").Return(nil, gorm.ErrRecordNotFound)

	svc := NewAuthService(userRepo, newTestJWTManager())

	_, err := svc.Login(&domain.LoginRequest{UserID: "alice", UserPW: "wrong"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("FindByCredentials", "alice", "pw").
		Return(&domain.User{Idx: 1, UserID: "alice", Nickname: "Alice"}, nil)

	manager := newTestJWTManager()
	svc := NewAuthService(userRepo, manager)

	resp, err := svc.Login(&domain.LoginRequest{UserID: "alice", UserPW: "pw"})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := manager.VerifyToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserIdx)
	assert.Equal(t, "alice", claims.UserID)
}
