package service

import (
	"context"
	"errors"
	"testing"

	"DMChat/apps/chat/internal/repository"
	"DMChat/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserServiceCachesKnownUsers(t *testing.T) {
	initServiceTestLogger()

	calls := 0
	repo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
			calls++
			if id == 7 {
				return &model.User{Id: 7, Username: "u7"}, nil
			}
			return nil, repository.ErrRecordNotFound
		},
	}
	svc := NewUserService(repo, 8)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := svc.Exists(ctx, 7)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, calls)

	// 未命中不缓存
	for i := 0; i < 2; i++ {
		ok, err := svc.Exists(ctx, 8)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 3, calls)

	ok, err := svc.Exists(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, calls)
}

func TestUserServicePropagatesStoreError(t *testing.T) {
	initServiceTestLogger()

	dbErr := errors.New("db down")
	svc := NewUserService(&fakeUserRepo{
		getByIDFn: func(context.Context, int64) (*model.User, error) {
			return nil, dbErr
		},
	}, 8)

	_, err := svc.Exists(context.Background(), 1)
	assert.ErrorIs(t, err, dbErr)

	_, err = svc.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, dbErr)
}
