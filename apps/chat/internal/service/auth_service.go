package service

import (
	"DMChat/apps/chat/internal/repository"
	"DMChat/model"
	"DMChat/pkg/logger"
	"DMChat/pkg/util"
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// authServiceImpl 认证服务
type authServiceImpl struct {
	userRepo    repository.IUserRepository
	sessionRepo repository.ISessionRepository
	tokenTTL    time.Duration
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.IUserRepository, sessionRepo repository.ISessionRepository, tokenTTL time.Duration) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenTTL:    tokenTTL,
	}
}

// Register 注册新用户，邮箱与用户名分别唯一
func (s *authServiceImpl) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, ErrParam
	}

	if err := s.checkTaken(ctx, email, username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error(ctx, "密码加密失败", logger.ErrorField("error", err))
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// 并发注册：重新判断是哪一项冲突
			if takenErr := s.checkTaken(ctx, email, username); takenErr != nil {
				return nil, takenErr
			}
			return nil, ErrEmailTaken
		}
		logger.Error(ctx, "创建用户失败", logger.ErrorField("error", err))
		return nil, err
	}

	logger.Info(ctx, "用户注册成功", logger.Int64("new_user_id", user.Id))
	return user, nil
}

func (s *authServiceImpl) checkTaken(ctx context.Context, email, username string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return err
	}
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return err
	}
	return nil
}

// Login 校验邮箱密码并签发会话 token。
// 邮箱不存在与密码错误返回同一错误，不暴露账号是否存在。
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrParam
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrBadCredential
		}
		logger.Error(ctx, "登录查询用户失败", logger.ErrorField("error", err))
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredential
	}

	sessionID := util.GenIDString()
	token, err := util.GenerateToken(user.Id, sessionID)
	if err != nil {
		logger.Error(ctx, "签发 Token 失败", logger.ErrorField("error", err))
		return nil, err
	}
	if err := s.sessionRepo.StoreAccessToken(ctx, user.Id, sessionID, token, s.tokenTTL); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: token, SessionID: sessionID}, nil
}

// Logout 删除 Redis 中的 token 摘要；未启用 Redis 时 token 会一直有效到过期
func (s *authServiceImpl) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil {
		return ErrUnauthorized
	}
	return s.sessionRepo.DeleteAccessToken(ctx, claims.UserID, claims.SessionID)
}

// VerifySession 先校验 JWT，再校验 Redis 中的会话摘要。
// Redis 异常时降级为仅 JWT 校验（fail-open），Key 不存在则视为已登出。
func (s *authServiceImpl) VerifySession(ctx context.Context, token string) (*util.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := util.ParseToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	ok, err := s.sessionRepo.VerifyAccessToken(ctx, claims.UserID, claims.SessionID, token)
	switch {
	case errors.Is(err, repository.ErrRedisDisabled):
		return claims, nil
	case err != nil:
		logger.Warn(ctx, "会话校验读取 Redis 失败，降级为仅 JWT 校验",
			logger.Int64("claim_user_id", claims.UserID),
			logger.ErrorField("error", err),
		)
		return claims, nil
	case !ok:
		return nil, ErrUnauthorized
	}
	return claims, nil
}
