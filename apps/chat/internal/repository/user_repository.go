package repository

import (
	"DMChat/model"
	"context"

	"gorm.io/gorm"
)

// userRepositoryImpl 用户数据访问层实现
type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB) IUserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return user, nil
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &user, nil
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &user, nil
}

func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &user, nil
}

// GetByEmailOrUsername 邮箱匹配优先于用户名匹配，避免 A 的用户名恰好等于 B 的邮箱时结果不确定
func (r *userRepositoryImpl) GetByEmailOrUsername(ctx context.Context, term string) (*model.User, error) {
	user, err := r.GetByEmail(ctx, term)
	if err == nil {
		return user, nil
	}
	if err != ErrRecordNotFound {
		return nil, err
	}
	return r.GetByUsername(ctx, term)
}

func (r *userRepositoryImpl) ListByIDs(ctx context.Context, ids []int64) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	var users []*model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&users).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return users, nil
}
