package manager

import (
	"sync"

	"DMChat/apps/chat/internal/metrics"
)

// Channel 已绑定身份的 live channel 句柄
type Channel interface {
	ID() int64
	Enqueue(msg []byte) bool
}

// closer 可选能力：Shutdown 时主动断开底层连接
type closer interface {
	Close()
}

// PresenceRegistry 进程内在线表：userID -> 该用户全部 live channel。
// 维护两套索引：
// - byUser(userID -> channelID -> channel) 用于按用户扇出；
// - owner(channelID -> userID) 用于 Leave 时定位所属用户。
// 只存在于内存，不作为任何业务判断的依据。
type PresenceRegistry struct {
	mu       sync.RWMutex
	byUser   map[int64]map[int64]Channel
	owner    map[int64]int64
	shutdown bool
}

// NewPresenceRegistry 创建在线表
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		byUser: make(map[int64]map[int64]Channel),
		owner:  make(map[int64]int64),
	}
}

// Join 将 channel 加入用户房间，重复调用无副作用。
// channel 已归属其他用户时先从原房间移除。
// 返回 false 表示 registry 已关闭。
func (r *PresenceRegistry) Join(userID int64, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shutdown {
		return false
	}

	id := ch.ID()
	if prev, ok := r.owner[id]; ok {
		if prev == userID {
			return true
		}
		r.removeLocked(prev, id)
	}

	r.owner[id] = userID
	chans, ok := r.byUser[userID]
	if !ok {
		chans = make(map[int64]Channel)
		r.byUser[userID] = chans
	}
	chans[id] = ch
	metrics.OnlineChannels.Set(float64(len(r.owner)))
	return true
}

// Leave 将 channel 从所属用户房间移除，未加入过的 channel 直接忽略
func (r *PresenceRegistry) Leave(ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := ch.ID()
	userID, ok := r.owner[id]
	if !ok {
		return
	}
	r.removeLocked(userID, id)
	metrics.OnlineChannels.Set(float64(len(r.owner)))
}

// ChannelsFor 返回用户当前 channel 的快照，调用方可在锁外逐个写入
func (r *PresenceRegistry) ChannelsFor(userID int64) []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chans := r.byUser[userID]
	if len(chans) == 0 {
		return nil
	}
	out := make([]Channel, 0, len(chans))
	for _, ch := range chans {
		out = append(out, ch)
	}
	return out
}

// IsOnline 用户是否至少有一个 live channel
func (r *PresenceRegistry) IsOnline(userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// Count 返回当前 live channel 总数
func (r *PresenceRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.owner)
}

// Shutdown 清空在线表、关闭全部连接并拒绝后续 Join
func (r *PresenceRegistry) Shutdown() {
	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return
	}
	r.shutdown = true

	chans := make([]Channel, 0, len(r.owner))
	for _, userChans := range r.byUser {
		for _, ch := range userChans {
			chans = append(chans, ch)
		}
	}
	r.byUser = make(map[int64]map[int64]Channel)
	r.owner = make(map[int64]int64)
	metrics.OnlineChannels.Set(0)
	r.mu.Unlock()

	for _, ch := range chans {
		if c, ok := ch.(closer); ok {
			c.Close()
		}
	}
}

func (r *PresenceRegistry) removeLocked(userID, channelID int64) {
	delete(r.owner, channelID)
	if chans, ok := r.byUser[userID]; ok {
		delete(chans, channelID)
		if len(chans) == 0 {
			delete(r.byUser, userID)
		}
	}
}
