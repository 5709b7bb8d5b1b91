package service

import (
	"fmt"
	"strings"

	"github.com/memoapp/memo-server/internal/common"
	"github.com/memoapp/memo-server/internal/domain"
	"github.com/memoapp/memo-server/internal/repository"
)

// GroupService handles group business logic
type GroupService struct {
	groupRepo repository.GroupRepository
	memos     *MemoService
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repository.GroupRepository, memos *MemoService) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		memos:     memos,
	}
}

// Create adds a new group for a user
func (s *GroupService) Create(req *domain.GroupCreateRequest) (*domain.Group, error) {
	if strings.TrimSpace(req.GroupName) == "" {
		return nil, fmt.Errorf("%w: group_name is required", common.ErrInvalidInput)
	}
	if req.UserIdx == 0 {
		return nil, fmt.Errorf("%w: user_idx_t is required", common.ErrInvalidInput)
	}

	group := &domain.Group{
		GroupName: req.GroupName,
		UserIdx:   req.UserIdx,
	}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, storeErr(err)
	}
	return group, nil
}

// Rename changes a group's name in place
func (s *GroupService) Rename(idx uint64, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: group_name is required", common.ErrInvalidInput)
	}

	rows, err := s.groupRepo.Rename(idx, name)
	if err != nil {
		return storeErr(err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes a group after cascading to its memos. The cascade is an
// explicit two-step — memos and their attachment files first, then the group
// row — because a database-level cascade cannot clean up files. No memo ever
// references a deleted group.
func (s *GroupService) Delete(idx uint64) (warn error, err error) {
	if _, err := s.groupRepo.FindByID(idx); err != nil {
		return nil, storeErr(err)
	}

	_, warn, err = s.memos.DeleteByGroup(idx)
	if err != nil {
		return nil, err
	}

	rows, err := s.groupRepo.Delete(idx)
	if err != nil {
		return warn, storeErr(err)
	}
	if rows == 0 {
		return warn, common.ErrNotFound
	}
	return warn, nil
}

// List returns the user's groups, most recently created first
func (s *GroupService) List(userIdx uint64) ([]domain.Group, error) {
	groups, err := s.groupRepo.ListByOwner(userIdx)
	if err != nil {
		return nil, storeErr(err)
	}
	return groups, nil
}
