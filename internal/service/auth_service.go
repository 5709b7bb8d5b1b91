package service

import (
	"errors"
	"fmt"

	"github.com/memoapp/memo-server/internal/common"
	"github.com/memoapp/memo-server/internal/domain"
	"github.com/memoapp/memo-server/internal/repository"
	"github.com/memoapp/memo-server/pkg/jwt"
	"gorm.io/gorm"
)

// AuthService handles signup and login.
// The credential check is a plain equality match against the stored password,
// kept as-is from the legacy schema this server fronts.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Signup registers a new user
func (s *AuthService) Signup(req *domain.SignupRequest) (*domain.User, error) {
	if req.UserID == "" || req.UserPW == "" {
		return nil, fmt.Errorf("%w: user_id and user_pw are required", common.ErrInvalidInput)
	}

	if _, err := s.userRepo.FindByUserID(req.UserID); err == nil {
		return nil, common.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr(err)
	}

	user := &domain.User{
		UserID:   req.UserID,
		UserPW:   req.UserPW,
		Nickname: req.Nickname,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// Login checks credentials and issues an API token
func (s *AuthService) Login(req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.FindByCredentials(req.UserID, req.UserPW)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, storeErr(err)
	}

	token, err := s.jwtManager.GenerateToken(user.Idx, user.UserID, user.Nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &domain.LoginResponse{
		User:  user,
		Token: token,
	}, nil
}
