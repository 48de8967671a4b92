package handler

import (
	"fmt"

	"DMChat/apps/chat/internal/converter"
	"DMChat/apps/chat/internal/dto"
	"DMChat/apps/chat/internal/middleware"
	"DMChat/apps/chat/internal/service"
	"DMChat/consts"
	"DMChat/pkg/result"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友申请与好友列表
type FriendHandler struct {
	relationService service.RelationService
}

// NewFriendHandler 创建好友处理器
func NewFriendHandler(relationService service.RelationService) *FriendHandler {
	return &FriendHandler{relationService: relationService}
}

// SearchFriend 按邮箱或用户名查找用户并发送好友申请
// @Summary 按邮箱或用户名查找用户并发送好友申请
// @Tags 好友接口
// @Produce json
// @Router /search_friend [post]
func (h *FriendHandler) SearchFriend(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req dto.SearchFriendRequest
	if err := c.ShouldBind(&req); err != nil {
		result.Fail(c, consts.CodeParamError)
		return
	}

	target, err := h.relationService.SearchAndRequest(ctx, userID, req.SearchTerm)
	if err != nil {
		respondError(ctx, c, err, "发送好友申请服务内部错误")
		return
	}

	result.Success(c, fmt.Sprintf("已向 %s 发送好友申请", target.Username), converter.ModelToFriendItem(target))
}

// HandleFriendRequest 接受或拒绝好友申请
// @Summary 接受或拒绝好友申请
// @Tags 好友接口
// @Produce json
// @Router /handle_friend_request [post]
func (h *FriendHandler) HandleFriendRequest(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req dto.HandleFriendRequestRequest
	if err := c.ShouldBind(&req); err != nil {
		result.Fail(c, consts.CodeParamError)
		return
	}

	if _, err := h.relationService.RespondToRequest(ctx, userID, req.RequestID, req.Action); err != nil {
		respondError(ctx, c, err, "处理好友申请服务内部错误")
		return
	}

	msg := "已接受好友申请"
	if req.Action == service.ActionDecline {
		msg = "已拒绝好友申请"
	}
	result.Success(c, msg, nil)
}

// ListFriends 好友列表
// @Summary 好友列表
// @Tags 好友接口
// @Produce json
// @Router /friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	friends, err := h.relationService.ListFriends(ctx, userID)
	if err != nil {
		respondError(ctx, c, err, "获取好友列表服务内部错误")
		return
	}

	result.Success(c, "", converter.ModelListToFriendItems(friends))
}

// ListFriendRequests 收到的待处理好友申请
// @Summary 收到的待处理好友申请
// @Tags 好友接口
// @Produce json
// @Router /friend_requests [get]
func (h *FriendHandler) ListFriendRequests(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	reqs, err := h.relationService.ListIncoming(ctx, userID)
	if err != nil {
		respondError(ctx, c, err, "获取好友申请列表服务内部错误")
		return
	}

	result.Success(c, "", converter.IncomingToRequestItems(reqs))
}
