package repository

import (
	"DMChat/model"
	"context"
	"sort"
	"sync"
	"time"
)

// 内存实现：所有数据保存在进程内，重启即丢失。
// 每个仓储一把锁，唯一性检查与插入在同一临界区内完成。

// memoryUserRepository 用户内存仓储
type memoryUserRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]*model.User
	byEmail    map[string]int64
	byUsername map[string]int64
}

func NewMemoryUserRepository() IUserRepository {
	return &memoryUserRepository{
		byID:       make(map[int64]*model.User),
		byEmail:    make(map[string]int64),
		byUsername: make(map[string]int64),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, ErrDuplicateKey
	}
	if _, ok := r.byUsername[user.Username]; ok {
		return nil, ErrDuplicateKey
	}

	r.nextID++
	stored := *user
	stored.Id = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.byID[stored.Id] = &stored
	r.byEmail[stored.Email] = stored.Id
	r.byUsername[stored.Username] = stored.Id

	out := stored
	return &out, nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyByID(id)
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return r.copyByID(id)
}

func (r *memoryUserRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return r.copyByID(id)
}

func (r *memoryUserRepository) GetByEmailOrUsername(_ context.Context, term string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byEmail[term]; ok {
		return r.copyByID(id)
	}
	if id, ok := r.byUsername[term]; ok {
		return r.copyByID(id)
	}
	return nil, ErrRecordNotFound
}

func (r *memoryUserRepository) ListByIDs(_ context.Context, ids []int64) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, err := r.copyByID(id); err == nil {
			users = append(users, u)
		}
	}
	return users, nil
}

// copyByID 调用方需持有锁
func (r *memoryUserRepository) copyByID(id int64) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	out := *u
	return &out, nil
}

// memoryLinkRepository 好友关系内存仓储
type memoryLinkRepository struct {
	mu        sync.RWMutex
	nextID    int64
	byID      map[int64]*model.FriendLink
	byPairKey map[string]int64
}

func NewMemoryLinkRepository() ILinkRepository {
	return &memoryLinkRepository{
		byID:      make(map[int64]*model.FriendLink),
		byPairKey: make(map[string]int64),
	}
}

func (r *memoryLinkRepository) Create(_ context.Context, link *model.FriendLink) (*model.FriendLink, error) {
	key := model.PairKey(link.RequesterId, link.RecipientId)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byPairKey[key]; ok {
		return nil, ErrDuplicateKey
	}

	r.nextID++
	now := time.Now()
	stored := *link
	stored.Id = r.nextID
	stored.PairKey = key
	if stored.Status == "" {
		stored.Status = model.LinkStatusPending
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.byID[stored.Id] = &stored
	r.byPairKey[key] = stored.Id

	out := stored
	return &out, nil
}

func (r *memoryLinkRepository) GetByID(_ context.Context, id int64) (*model.FriendLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, ok := r.byID[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	out := *link
	return &out, nil
}

func (r *memoryLinkRepository) GetByPair(_ context.Context, a, b int64) (*model.FriendLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPairKey[model.PairKey(a, b)]
	if !ok {
		return nil, ErrRecordNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *memoryLinkRepository) Accept(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.byID[id]
	if !ok || link.Status != model.LinkStatusPending {
		return ErrRecordNotFound
	}
	link.Status = model.LinkStatusAccepted
	link.UpdatedAt = time.Now()
	return nil
}

func (r *memoryLinkRepository) DeletePending(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.byID[id]
	if !ok || link.Status != model.LinkStatusPending {
		return ErrRecordNotFound
	}
	delete(r.byPairKey, link.PairKey)
	delete(r.byID, id)
	return nil
}

func (r *memoryLinkRepository) ListAccepted(_ context.Context, userID int64) ([]*model.FriendLink, error) {
	return r.filter(func(l *model.FriendLink) bool {
		return l.Status == model.LinkStatusAccepted && (l.RequesterId == userID || l.RecipientId == userID)
	}), nil
}

func (r *memoryLinkRepository) ListIncomingPending(_ context.Context, userID int64) ([]*model.FriendLink, error) {
	return r.filter(func(l *model.FriendLink) bool {
		return l.Status == model.LinkStatusPending && l.RecipientId == userID
	}), nil
}

// filter 返回按 id 升序的匹配副本
func (r *memoryLinkRepository) filter(match func(*model.FriendLink) bool) []*model.FriendLink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	links := make([]*model.FriendLink, 0)
	for _, l := range r.byID {
		if match(l) {
			out := *l
			links = append(links, &out)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Id < links[j].Id })
	return links
}

// memoryMessageRepository 消息内存仓储，按用户对分桶
type memoryMessageRepository struct {
	mu     sync.RWMutex
	nextID int64
	byPair map[string][]*model.Message
}

func NewMemoryMessageRepository() IMessageRepository {
	return &memoryMessageRepository{
		byPair: make(map[string][]*model.Message),
	}
}

func (r *memoryMessageRepository) Create(_ context.Context, msg *model.Message) (*model.Message, error) {
	key := model.PairKey(msg.SenderId, msg.ReceiverId)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *msg
	stored.Id = r.nextID
	stored.PairKey = key
	r.byPair[key] = append(r.byPair[key], &stored)

	out := stored
	return &out, nil
}

func (r *memoryMessageRepository) ListByPair(_ context.Context, a, b int64) ([]*model.Message, error) {
	r.mu.RLock()
	bucket := r.byPair[model.PairKey(a, b)]
	msgs := make([]*model.Message, 0, len(bucket))
	for _, m := range bucket {
		out := *m
		msgs = append(msgs, &out)
	}
	r.mu.RUnlock()

	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].SentAt.Equal(msgs[j].SentAt) {
			return msgs[i].SentAt.Before(msgs[j].SentAt)
		}
		return msgs[i].Id < msgs[j].Id
	})
	return msgs, nil
}
