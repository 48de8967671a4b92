package handler

import (
	"errors"
	"net/http"
	"strconv"

	"DMChat/apps/chat/internal/converter"
	"DMChat/apps/chat/internal/middleware"
	"DMChat/apps/chat/internal/service"
	"DMChat/consts"
	"DMChat/pkg/result"

	"github.com/gin-gonic/gin"
)

// MessageHandler 历史消息
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler 创建消息处理器
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// History 与好友的全部历史消息，成功时直接返回消息数组
// @Summary 与好友的全部历史消息
// @Tags 消息接口
// @Produce json
// @Router /messages/{friendId} [get]
func (h *MessageHandler) History(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	friendID, err := strconv.ParseInt(c.Param("friendId"), 10, 64)
	if err != nil || friendID <= 0 {
		result.FailWithStatus(c, http.StatusBadRequest, consts.CodeParamError, "")
		return
	}

	msgs, err := h.messageService.History(ctx, userID, friendID)
	if err != nil {
		if errors.Is(err, service.ErrNotFriends) {
			result.FailWithStatus(c, http.StatusForbidden, consts.CodeNotFriend, "")
			return
		}
		respondError(ctx, c, err, "查询历史消息服务内部错误")
		return
	}

	c.JSON(http.StatusOK, converter.ModelListToMessageItems(msgs))
}
