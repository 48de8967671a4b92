package svc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"DMChat/apps/chat/internal/service"
	"DMChat/config"
	"DMChat/model"
	"DMChat/pkg/async"
	"DMChat/pkg/logger"
	"DMChat/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var svcTestOnce sync.Once

func initSvcTest(t *testing.T) {
	t.Helper()
	svcTestOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
		if err := async.Init(config.DefaultAsyncConfig()); err != nil {
			t.Fatalf("init async pool: %v", err)
		}
	})
}

type fakeAuthService struct {
	verifyFn func(context.Context, string) (*util.Claims, error)
}

func (f *fakeAuthService) Register(context.Context, string, string, string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthService) Login(context.Context, string, string) (*service.LoginResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthService) Logout(context.Context, *util.Claims) error {
	return nil
}

func (f *fakeAuthService) VerifySession(ctx context.Context, token string) (*util.Claims, error) {
	return f.verifyFn(ctx, token)
}

type activeCall struct {
	userID, channelID, ts int64
}

type fakeSessionRepo struct {
	calls chan activeCall
}

func (f *fakeSessionRepo) StoreAccessToken(context.Context, int64, string, string, time.Duration) error {
	return nil
}

func (f *fakeSessionRepo) VerifyAccessToken(context.Context, int64, string, string) (bool, error) {
	return true, nil
}

func (f *fakeSessionRepo) DeleteAccessToken(context.Context, int64, string) error {
	return nil
}

func (f *fakeSessionRepo) SetActiveTimestamp(_ context.Context, userID, channelID int64, ts int64) error {
	f.calls <- activeCall{userID: userID, channelID: channelID, ts: ts}
	return nil
}

func TestAuthenticate(t *testing.T) {
	initSvcTest(t)
	auth := &fakeAuthService{verifyFn: func(_ context.Context, token string) (*util.Claims, error) {
		if token == "good" {
			return &util.Claims{UserID: 5, SessionID: "s1"}, nil
		}
		if token == "boom" {
			return nil, errors.New("redis exploded")
		}
		return nil, service.ErrUnauthorized
	}}
	s := NewConnectService(auth, nil)

	_, err := s.Authenticate(context.Background(), "  ", "1.1.1.1")
	assert.ErrorIs(t, err, ErrTokenRequired)

	_, err = s.Authenticate(context.Background(), "bad", "1.1.1.1")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = s.Authenticate(context.Background(), "boom", "1.1.1.1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenInvalid)

	first, err := s.Authenticate(context.Background(), " good ", "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.UserID)
	assert.Equal(t, "s1", first.SessionID)

	second, err := s.Authenticate(context.Background(), "good", "1.1.1.1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ChannelID, second.ChannelID)
}

func TestHeartbeatTouchesActiveTimestamp(t *testing.T) {
	initSvcTest(t)
	repo := &fakeSessionRepo{calls: make(chan activeCall, 1)}
	s := NewConnectService(&fakeAuthService{}, repo)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	s.OnHeartbeat(context.Background(), &Session{UserID: 5, ChannelID: 42})

	select {
	case call := <-repo.calls:
		assert.Equal(t, activeCall{userID: 5, channelID: 42, ts: 1700000000}, call)
	case <-time.After(2 * time.Second):
		t.Fatal("active timestamp was not written")
	}
}
