package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/memoapp/memo-server/internal/common"
	"github.com/memoapp/memo-server/internal/domain"
	"github.com/memoapp/memo-server/internal/service"
)

// MemoHandler handles memo API endpoints
type MemoHandler struct {
	memoService *service.MemoService
}

// NewMemoHandler creates a new MemoHandler
func NewMemoHandler(memoService *service.MemoService) *MemoHandler {
	return &MemoHandler{memoService: memoService}
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id", err)
		return 0, false
	}
	return id, true
}

// List handles GET /api/memos/:user_idx
func (h *MemoHandler) List(c *gin.Context) {
	userIdx, ok := parseIDParam(c, "user_idx")
	if !ok {
		return
	}

	memos, err := h.memoService.List(userIdx)
	if err != nil {
		common.MapError(c, "failed to list memos", err)
		return
	}

	common.SuccessResponse(c, memos)
}

// Create handles POST /api/memos
func (h *MemoHandler) Create(c *gin.Context) {
	var req domain.MemoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "title, group_idx_t and user_idx_t are required", err)
		return
	}

	memo, err := h.memoService.Create(&req)
	if err != nil {
		common.MapError(c, "failed to create memo", err)
		return
	}

	common.CreatedResponse(c, &domain.InsertResult{InsertedID: memo.Idx})
}

// Update handles PUT /api/memos/:id (multipart form).
// Form fields: title, contents, removeImage ("true" drops the attachment),
// image (optional file, replaces the attachment).
func (h *MemoHandler) Update(c *gin.Context) {
	idx, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	req := &domain.MemoUpdateRequest{
		Title:    c.PostForm("title"),
		Contents: c.PostForm("contents"),
		Op:       domain.AttachmentOp{Kind: domain.AttachmentKeep},
	}

	if c.PostForm("removeImage") == "true" {
		req.Op.Kind = domain.AttachmentRemove
	} else if file, err := c.FormFile("image"); err == nil {
		req.Op = domain.AttachmentOp{Kind: domain.AttachmentReplace, File: file}
	}

	warn, err := h.memoService.Update(idx, req)
	if err != nil {
		common.MapError(c, "failed to update memo", err)
		return
	}
	if warn != nil {
		common.DegradedResponse(c, gin.H{"updated": true}, warn)
		return
	}

	common.SuccessResponse(c, gin.H{"updated": true})
}

// SetPinned handles PATCH /api/memos/:id/pin
func (h *MemoHandler) SetPinned(c *gin.Context) {
	idx, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.MemoPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "is_pinned is required", err)
		return
	}

	if err := h.memoService.SetPinned(idx, *req.IsPinned); err != nil {
		common.MapError(c, "failed to change pin state", err)
		return
	}

	common.SuccessResponse(c, gin.H{"is_pinned": *req.IsPinned})
}

// Delete handles DELETE /api/memos/:id
func (h *MemoHandler) Delete(c *gin.Context) {
	idx, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	warn, err := h.memoService.Delete(idx)
	if err != nil {
		common.MapError(c, "failed to delete memo", err)
		return
	}
	if warn != nil {
		common.DegradedResponse(c, gin.H{"deleted": true}, warn)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true})
}

// DeleteByGroup handles DELETE /api/memos/group/:group_idx
func (h *MemoHandler) DeleteByGroup(c *gin.Context) {
	groupIdx, ok := parseIDParam(c, "group_idx")
	if !ok {
		return
	}

	count, warn, err := h.memoService.DeleteByGroup(groupIdx)
	if err != nil {
		common.MapError(c, "failed to delete group memos", err)
		return
	}

	result := &domain.DeleteByGroupResult{Count: count}
	if warn != nil {
		common.DegradedResponse(c, result, warn)
		return
	}

	common.SuccessResponse(c, result)
}

// Upload handles POST /api/memos/upload
func (h *MemoHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "image file is required", err)
		return
	}

	result, err := h.memoService.Upload(file)
	if err != nil {
		common.MapError(c, "failed to upload image", err)
		return
	}

	common.SuccessResponse(c, result)
}
