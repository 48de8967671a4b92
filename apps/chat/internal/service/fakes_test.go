package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"DMChat/apps/chat/internal/repository"
	"DMChat/model"
	"DMChat/pkg/logger"

	"go.uber.org/zap"
)

var serviceLoggerOnce sync.Once

func initServiceTestLogger() {
	serviceLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
	})
}

type fakeUserRepo struct {
	createFn               func(context.Context, *model.User) (*model.User, error)
	getByIDFn              func(context.Context, int64) (*model.User, error)
	getByEmailFn           func(context.Context, string) (*model.User, error)
	getByUsernameFn        func(context.Context, string) (*model.User, error)
	getByEmailOrUsernameFn func(context.Context, string) (*model.User, error)
	listByIDsFn            func(context.Context, []int64) ([]*model.User, error)
}

var _ repository.IUserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if f.createFn == nil {
		return user, nil
	}
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if f.getByIDFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.getByEmailFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByEmailFn(ctx, email)
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.getByUsernameFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByUsernameFn(ctx, username)
}

func (f *fakeUserRepo) GetByEmailOrUsername(ctx context.Context, term string) (*model.User, error) {
	if f.getByEmailOrUsernameFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByEmailOrUsernameFn(ctx, term)
}

func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []int64) ([]*model.User, error) {
	if f.listByIDsFn == nil {
		return nil, nil
	}
	return f.listByIDsFn(ctx, ids)
}

type fakeLinkRepo struct {
	createFn              func(context.Context, *model.FriendLink) (*model.FriendLink, error)
	getByIDFn             func(context.Context, int64) (*model.FriendLink, error)
	getByPairFn           func(context.Context, int64, int64) (*model.FriendLink, error)
	acceptFn              func(context.Context, int64) error
	deletePendingFn       func(context.Context, int64) error
	listAcceptedFn        func(context.Context, int64) ([]*model.FriendLink, error)
	listIncomingPendingFn func(context.Context, int64) ([]*model.FriendLink, error)
}

var _ repository.ILinkRepository = (*fakeLinkRepo)(nil)

func (f *fakeLinkRepo) Create(ctx context.Context, link *model.FriendLink) (*model.FriendLink, error) {
	if f.createFn == nil {
		return link, nil
	}
	return f.createFn(ctx, link)
}

func (f *fakeLinkRepo) GetByID(ctx context.Context, id int64) (*model.FriendLink, error) {
	if f.getByIDFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeLinkRepo) GetByPair(ctx context.Context, a, b int64) (*model.FriendLink, error) {
	if f.getByPairFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByPairFn(ctx, a, b)
}

func (f *fakeLinkRepo) Accept(ctx context.Context, id int64) error {
	if f.acceptFn == nil {
		return nil
	}
	return f.acceptFn(ctx, id)
}

func (f *fakeLinkRepo) DeletePending(ctx context.Context, id int64) error {
	if f.deletePendingFn == nil {
		return nil
	}
	return f.deletePendingFn(ctx, id)
}

func (f *fakeLinkRepo) ListAccepted(ctx context.Context, userID int64) ([]*model.FriendLink, error) {
	if f.listAcceptedFn == nil {
		return nil, nil
	}
	return f.listAcceptedFn(ctx, userID)
}

func (f *fakeLinkRepo) ListIncomingPending(ctx context.Context, userID int64) ([]*model.FriendLink, error) {
	if f.listIncomingPendingFn == nil {
		return nil, nil
	}
	return f.listIncomingPendingFn(ctx, userID)
}

type fakeSessionRepo struct {
	storeFn  func(context.Context, int64, string, string, time.Duration) error
	verifyFn func(context.Context, int64, string, string) (bool, error)
	deleteFn func(context.Context, int64, string) error
	activeFn func(context.Context, int64, int64, int64) error
}

var _ repository.ISessionRepository = (*fakeSessionRepo)(nil)

func (f *fakeSessionRepo) StoreAccessToken(ctx context.Context, userID int64, sessionID, token string, expire time.Duration) error {
	if f.storeFn == nil {
		return nil
	}
	return f.storeFn(ctx, userID, sessionID, token, expire)
}

func (f *fakeSessionRepo) VerifyAccessToken(ctx context.Context, userID int64, sessionID, token string) (bool, error) {
	if f.verifyFn == nil {
		return false, repository.ErrRedisDisabled
	}
	return f.verifyFn(ctx, userID, sessionID, token)
}

func (f *fakeSessionRepo) DeleteAccessToken(ctx context.Context, userID int64, sessionID string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, userID, sessionID)
}

func (f *fakeSessionRepo) SetActiveTimestamp(ctx context.Context, userID, channelID int64, ts int64) error {
	if f.activeFn == nil {
		return nil
	}
	return f.activeFn(ctx, userID, channelID, ts)
}

// memorySessions 模拟 Redis 中的会话摘要
type memorySessions struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{tokens: make(map[string]string)}
}

func (m *memorySessions) repo() *fakeSessionRepo {
	key := func(userID int64, sessionID string) string {
		return fmt.Sprintf("%d:%s", userID, sessionID)
	}
	return &fakeSessionRepo{
		storeFn: func(_ context.Context, userID int64, sessionID, token string, _ time.Duration) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.tokens[key(userID, sessionID)] = token
			return nil
		},
		verifyFn: func(_ context.Context, userID int64, sessionID, token string) (bool, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			stored, ok := m.tokens[key(userID, sessionID)]
			return ok && stored == token, nil
		},
		deleteFn: func(_ context.Context, userID int64, sessionID string) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.tokens, key(userID, sessionID))
			return nil
		},
	}
}

// newMemoryServices 基于内存存储组装关系服务，用于状态机行为测试
func newMemoryServices(t *testing.T) (*repository.Store, RelationService) {
	t.Helper()
	store := repository.NewMemoryStore()
	users := NewUserService(store.Users, 16)
	return store, NewRelationService(store.Users, store.Links, users)
}

func seedUser(store *repository.Store, email, username string) *model.User {
	u, err := store.Users.Create(context.Background(), &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: "x",
	})
	if err != nil {
		panic(err)
	}
	return u
}
