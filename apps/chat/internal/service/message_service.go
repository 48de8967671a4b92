package service

import (
	"DMChat/apps/chat/internal/repository"
	"DMChat/model"
	"DMChat/pkg/logger"
	"context"
)

// messageServiceImpl 历史消息查询
type messageServiceImpl struct {
	messageRepo       repository.IMessageRepository
	relations         RelationService
	requireFriendship bool
}

// NewMessageService requireFriendship 与投递链路使用同一配置项
func NewMessageService(messageRepo repository.IMessageRepository, relations RelationService, requireFriendship bool) MessageService {
	return &messageServiceImpl{
		messageRepo:       messageRepo,
		relations:         relations,
		requireFriendship: requireFriendship,
	}
}

// History 只有关系中的一方可以查询，结果对 (a,b) 与 (b,a) 相同
func (s *messageServiceImpl) History(ctx context.Context, requesterID, peerID int64) ([]*model.Message, error) {
	if requesterID == peerID {
		return nil, ErrNotFriends
	}
	if s.requireFriendship {
		ok, err := s.relations.AreFriends(ctx, requesterID, peerID)
		if err != nil {
			logger.Error(ctx, "历史消息好友校验失败",
				logger.Int64("peer_id", peerID),
				logger.ErrorField("error", err),
			)
			return nil, err
		}
		if !ok {
			return nil, ErrNotFriends
		}
	}

	msgs, err := s.messageRepo.ListByPair(ctx, requesterID, peerID)
	if err != nil {
		logger.Error(ctx, "查询历史消息失败",
			logger.Int64("peer_id", peerID),
			logger.ErrorField("error", err),
		)
		return nil, err
	}
	return msgs, nil
}
