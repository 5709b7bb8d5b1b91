package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/memoapp/memo-server/internal/common"
	"github.com/memoapp/memo-server/internal/domain"
	"github.com/memoapp/memo-server/internal/repository"
	"gorm.io/gorm"
)

// MemoService handles memo business logic. All attachment file changes go
// through the AttachmentStore, and the memo record's image reference is
// swapped in the same operation that triggers the file mutation, so a reader
// of the record never sees a reference whose file does not exist yet.
type MemoService struct {
	memoRepo  repository.MemoRepository
	groupRepo repository.GroupRepository
	files     AttachmentStore
}

// NewMemoService creates a new MemoService
func NewMemoService(memoRepo repository.MemoRepository, groupRepo repository.GroupRepository, files AttachmentStore) *MemoService {
	return &MemoService{
		memoRepo:  memoRepo,
		groupRepo: groupRepo,
		files:     files,
	}
}

// storeErr translates repository errors into the service error taxonomy
func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	return fmt.Errorf("%w: %v", common.ErrStorage, err)
}

// Create adds a new memo to a group. The memo starts unpinned with no
// attachment; newest-first ordering among unpinned memos follows from the
// created_at timestamp.
func (s *MemoService) Create(req *domain.MemoCreateRequest) (*domain.Memo, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	}
	if req.GroupIdx == 0 || req.UserIdx == 0 {
		return nil, fmt.Errorf("%w: group_idx_t and user_idx_t are required", common.ErrInvalidInput)
	}

	group, err := s.groupRepo.FindByID(req.GroupIdx)
	if err != nil {
		return nil, storeErr(err)
	}
	if group.UserIdx != req.UserIdx {
		return nil, fmt.Errorf("%w: group does not belong to user", common.ErrInvalidInput)
	}

	memo := &domain.Memo{
		Title:    req.Title,
		Contents: req.Contents,
		GroupIdx: req.GroupIdx,
		UserIdx:  req.UserIdx,
		IsPinned: false,
	}
	if err := s.memoRepo.Create(memo); err != nil {
		return nil, storeErr(err)
	}
	return memo, nil
}

// Update changes a memo's title, contents and optionally its attachment.
// Replace stores the new file before anything is destroyed, swaps the record
// reference, then deletes the old file; a failed old-file delete degrades
// the result (warn) instead of failing it, since the orphan is recoverable.
func (s *MemoService) Update(idx uint64, req *domain.MemoUpdateRequest) (warn, err error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	}

	memo, err := s.memoRepo.FindByID(idx)
	if err != nil {
		return nil, storeErr(err)
	}

	var oldRef string
	switch req.Op.Kind {
	case domain.AttachmentReplace:
		newRef, err := s.files.Store(req.Op.File)
		if err != nil {
			return nil, err
		}
		if memo.ImageURL != nil {
			oldRef = *memo.ImageURL
		}
		memo.ImageURL = &newRef
	case domain.AttachmentRemove:
		if memo.ImageURL != nil {
			oldRef = *memo.ImageURL
		}
		memo.ImageURL = nil
	case domain.AttachmentKeep:
	}

	memo.Title = req.Title
	memo.Contents = req.Contents

	if err := s.memoRepo.Update(memo); err != nil {
		// The record still points at the old file; drop the new one so it
		// cannot leak.
		if req.Op.Kind == domain.AttachmentReplace && memo.ImageURL != nil {
			_ = s.files.Remove(*memo.ImageURL)
		}
		return nil, storeErr(err)
	}

	if oldRef != "" {
		if rmErr := s.files.Remove(oldRef); rmErr != nil {
			warn = &common.FileCleanupError{Ref: oldRef, Err: rmErr}
		}
	}
	return warn, nil
}

// Delete removes a memo and its attachment file. A second delete of the same
// id fails with not-found.
func (s *MemoService) Delete(idx uint64) (warn, err error) {
	memo, err := s.memoRepo.FindByID(idx)
	if err != nil {
		return nil, storeErr(err)
	}

	rows, err := s.memoRepo.Delete(idx)
	if err != nil {
		return nil, storeErr(err)
	}
	if rows == 0 {
		return nil, common.ErrNotFound
	}

	if memo.ImageURL != nil {
		if rmErr := s.files.Remove(*memo.ImageURL); rmErr != nil {
			warn = &common.FileCleanupError{Ref: *memo.ImageURL, Err: rmErr}
		}
	}
	return warn, nil
}

// DeleteByGroup removes every memo in a group and their attachment files.
// Rows go first in a single statement; files are cleaned up afterwards, so a
// file failure can only ever orphan files, never leave dangling records.
func (s *MemoService) DeleteByGroup(groupIdx uint64) (count int64, warn, err error) {
	memos, err := s.memoRepo.FindByGroup(groupIdx)
	if err != nil {
		return 0, nil, storeErr(err)
	}

	count, err = s.memoRepo.DeleteByGroup(groupIdx)
	if err != nil {
		return 0, nil, storeErr(err)
	}

	var warns []error
	for i := range memos {
		if memos[i].ImageURL == nil {
			continue
		}
		if rmErr := s.files.Remove(*memos[i].ImageURL); rmErr != nil {
			warns = append(warns, &common.FileCleanupError{Ref: *memos[i].ImageURL, Err: rmErr})
		}
	}
	return count, errors.Join(warns...), nil
}

// SetPinned toggles a memo's favorite state. Pinning assigns the next
// per-owner ordinal; unpinning clears it. Requesting the state the memo is
// already in succeeds without touching the ordinal, so re-pinning never
// reorders the pinned set.
func (s *MemoService) SetPinned(idx uint64, pinned bool) error {
	memo, err := s.memoRepo.FindByID(idx)
	if err != nil {
		return storeErr(err)
	}
	if memo.IsPinned == pinned {
		return nil
	}

	if pinned {
		if err := s.memoRepo.Pin(idx, memo.UserIdx); err != nil {
			return storeErr(err)
		}
		return nil
	}
	if err := s.memoRepo.Unpin(idx); err != nil {
		return storeErr(err)
	}
	return nil
}

// List returns all of a user's memos in canonical display order. The result
// is a snapshot at call time; clients reconcile by re-fetching.
func (s *MemoService) List(userIdx uint64) ([]*domain.MemoResponse, error) {
	items, err := s.memoRepo.ListByOwner(userIdx)
	if err != nil {
		return nil, storeErr(err)
	}

	resp := make([]*domain.MemoResponse, 0, len(items))
	for i := range items {
		resp = append(resp, items[i].ToResponse())
	}
	return resp, nil
}

// Upload stores a file without attaching it to any memo and returns its URL
func (s *MemoService) Upload(file *multipart.FileHeader) (*domain.UploadResult, error) {
	ref, err := s.files.Store(file)
	if err != nil {
		return nil, err
	}
	return &domain.UploadResult{
		Filename: ref[strings.LastIndex(ref, "/")+1:],
		URL:      ref,
	}, nil
}
