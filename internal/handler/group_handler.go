package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memoapp/memo-server/internal/common"
	"github.com/memoapp/memo-server/internal/domain"
	"github.com/memoapp/memo-server/internal/service"
)

// GroupHandler handles group API endpoints
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// List handles GET /api/groups/:user_idx
func (h *GroupHandler) List(c *gin.Context) {
	userIdx, ok := parseIDParam(c, "user_idx")
	if !ok {
		return
	}

	groups, err := h.groupService.List(userIdx)
	if err != nil {
		common.MapError(c, "failed to list groups", err)
		return
	}

	common.SuccessResponse(c, groups)
}

// Create handles POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req domain.GroupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "group_name and user_idx_t are required", err)
		return
	}

	group, err := h.groupService.Create(&req)
	if err != nil {
		common.MapError(c, "failed to create group", err)
		return
	}

	common.CreatedResponse(c, &domain.InsertResult{InsertedID: group.Idx})
}

// Rename handles PUT /api/groups/:id
func (h *GroupHandler) Rename(c *gin.Context) {
	idx, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.GroupRenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "group_name is required", err)
		return
	}

	if err := h.groupService.Rename(idx, req.GroupName); err != nil {
		common.MapError(c, "failed to rename group", err)
		return
	}

	common.SuccessResponse(c, gin.H{"renamed": true})
}

// Delete handles DELETE /api/groups/:id and cascades to the group's memos
func (h *GroupHandler) Delete(c *gin.Context) {
	idx, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	warn, err := h.groupService.Delete(idx)
	if err != nil {
		common.MapError(c, "failed to delete group", err)
		return
	}
	if warn != nil {
		common.DegradedResponse(c, gin.H{"deleted": true}, warn)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true})
}
