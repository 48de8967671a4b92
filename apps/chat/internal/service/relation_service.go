package service

import (
	"DMChat/apps/chat/internal/repository"
	"DMChat/model"
	"DMChat/pkg/logger"
	"context"
	"errors"
	"strings"
)

// requestFriendAttempts 并发冲突后重新读取关系状态的最大次数
const requestFriendAttempts = 2

// relationServiceImpl 好友关系状态机实现
type relationServiceImpl struct {
	userRepo repository.IUserRepository
	linkRepo repository.ILinkRepository
	users    UserService
}

// NewRelationService 创建好友关系服务
func NewRelationService(userRepo repository.IUserRepository, linkRepo repository.ILinkRepository, users UserService) RelationService {
	return &relationServiceImpl{
		userRepo: userRepo,
		linkRepo: linkRepo,
		users:    users,
	}
}

// RequestFriend 发起好友申请。
// 任一方向已存在关系时按状态返回 ErrAlreadyPending / ErrAlreadyFriends。
// 唯一性由存储层保证：并发插入冲突后重新读取关系再判定。
func (s *relationServiceImpl) RequestFriend(ctx context.Context, requesterID, targetID int64) (*model.FriendLink, error) {
	if requesterID == targetID {
		return nil, ErrAlreadySelf
	}

	exists, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	for attempt := 0; attempt < requestFriendAttempts; attempt++ {
		existing, err := s.linkRepo.GetByPair(ctx, requesterID, targetID)
		switch {
		case err == nil:
			return nil, existingLinkError(existing)
		case !errors.Is(err, repository.ErrRecordNotFound):
			logger.Error(ctx, "查询好友关系失败",
				logger.Int64("target_id", targetID),
				logger.ErrorField("error", err),
			)
			return nil, err
		}

		link, err := s.linkRepo.Create(ctx, &model.FriendLink{
			RequesterId: requesterID,
			RecipientId: targetID,
			Status:      model.LinkStatusPending,
		})
		if err == nil {
			logger.Info(ctx, "好友申请已创建",
				logger.Int64("link_id", link.Id),
				logger.Int64("target_id", targetID),
			)
			return link, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			logger.Error(ctx, "创建好友申请失败",
				logger.Int64("target_id", targetID),
				logger.ErrorField("error", err),
			)
			return nil, err
		}
		// 与对方的并发申请冲突，回到开头重新读取
	}
	return nil, ErrAlreadyPending
}

func existingLinkError(link *model.FriendLink) error {
	if link.IsAccepted() {
		return ErrAlreadyFriends
	}
	return ErrAlreadyPending
}

// SearchAndRequest 邮箱或用户名精确匹配，找到后发起申请
func (s *relationServiceImpl) SearchAndRequest(ctx context.Context, requesterID int64, term string) (*model.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrSearchTermEmpty
	}

	target, err := s.userRepo.GetByEmailOrUsername(ctx, term)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error(ctx, "搜索用户失败",
			logger.String("term", term),
			logger.ErrorField("error", err),
		)
		return nil, err
	}

	if _, err := s.RequestFriend(ctx, requesterID, target.Id); err != nil {
		return nil, err
	}
	return target, nil
}

// RespondToRequest 只有接收方可以处理申请。
// accept：pending -> accepted；decline：删除 pending 记录，之后可重新申请。
// 已接受的关系无论 accept 还是 decline 都返回 ErrAlreadyFriends 且保持不变。
func (s *relationServiceImpl) RespondToRequest(ctx context.Context, recipientID, linkID int64, action string) (*model.FriendLink, error) {
	link, err := s.getLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.RecipientId != recipientID {
		return nil, ErrForbidden
	}

	action = strings.ToLower(strings.TrimSpace(action))
	if action != ActionAccept && action != ActionDecline {
		return nil, ErrUnknownAction
	}
	if link.IsAccepted() {
		return nil, ErrAlreadyFriends
	}

	switch action {
	case ActionAccept:
		err = s.linkRepo.Accept(ctx, linkID)
	case ActionDecline:
		err = s.linkRepo.DeletePending(ctx, linkID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			// 读取后状态被并发修改：重新判定
			return nil, s.resolveLost(ctx, linkID)
		}
		logger.Error(ctx, "处理好友申请失败",
			logger.Int64("link_id", linkID),
			logger.String("action", action),
			logger.ErrorField("error", err),
		)
		return nil, err
	}

	if action == ActionAccept {
		link.Status = model.LinkStatusAccepted
	}
	logger.Info(ctx, "好友申请已处理",
		logger.Int64("link_id", linkID),
		logger.String("action", action),
	)
	return link, nil
}

// resolveLost 条件更新未命中时，依据最新状态给出错误
func (s *relationServiceImpl) resolveLost(ctx context.Context, linkID int64) error {
	current, err := s.getLink(ctx, linkID)
	if err != nil {
		return err
	}
	if current.IsAccepted() {
		return ErrAlreadyFriends
	}
	return ErrLinkNotFound
}

func (s *relationServiceImpl) getLink(ctx context.Context, linkID int64) (*model.FriendLink, error) {
	link, err := s.linkRepo.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		logger.Error(ctx, "查询好友申请失败",
			logger.Int64("link_id", linkID),
			logger.ErrorField("error", err),
		)
		return nil, err
	}
	return link, nil
}

func (s *relationServiceImpl) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	if a == b {
		return false, nil
	}
	link, err := s.linkRepo.GetByPair(ctx, a, b)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return link.IsAccepted(), nil
}

func (s *relationServiceImpl) ListFriends(ctx context.Context, userID int64) ([]*model.User, error) {
	links, err := s.linkRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.PeerOf(userID))
	}
	return s.userRepo.ListByIDs(ctx, ids)
}

func (s *relationServiceImpl) ListIncoming(ctx context.Context, userID int64) ([]*IncomingRequest, error) {
	links, err := s.linkRepo.ListIncomingPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.RequesterId)
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.User, len(users))
	for _, u := range users {
		byID[u.Id] = u
	}

	requests := make([]*IncomingRequest, 0, len(links))
	for _, l := range links {
		requester, ok := byID[l.RequesterId]
		if !ok {
			continue
		}
		requests = append(requests, &IncomingRequest{Link: l, Requester: requester})
	}
	return requests, nil
}
