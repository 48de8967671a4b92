package service

import (
	"DMChat/apps/chat/internal/repository"
	"DMChat/model"
	"DMChat/pkg/logger"
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// userServiceImpl 用户查询服务
// 用户注册后不会删除，因此只缓存"存在"的结果，不缓存未命中。
type userServiceImpl struct {
	userRepo repository.IUserRepository
	known    *lru.Cache[int64, *model.User]
}

// NewUserService 创建用户查询服务，cacheSize <= 0 时关闭缓存
func NewUserService(userRepo repository.IUserRepository, cacheSize int) UserService {
	s := &userServiceImpl{userRepo: userRepo}
	if cacheSize > 0 {
		cache, err := lru.New[int64, *model.User](cacheSize)
		if err == nil {
			s.known = cache
		}
	}
	return s
}

func (s *userServiceImpl) Exists(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	_, err := s.GetByID(ctx, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

func (s *userServiceImpl) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	if s.known != nil {
		if u, ok := s.known.Get(userID); ok {
			out := *u
			return &out, nil
		}
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error(ctx, "查询用户失败",
			logger.Int64("target_id", userID),
			logger.ErrorField("error", err),
		)
		return nil, err
	}

	if s.known != nil {
		cached := *u
		s.known.Add(userID, &cached)
	}
	return u, nil
}
