package util

import (
	"sync"
	"time"
)

// MonotonicClock 为消息发送时间提供单调不减的时间戳。
// 系统时钟回拨时沿用上一次的时间，保证同一进程内写入的 sentAt 不倒退。
type MonotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewMonotonicClock 创建时钟，now 为空时使用 time.Now。
func NewMonotonicClock(now func() time.Time) *MonotonicClock {
	if now == nil {
		now = time.Now
	}
	return &MonotonicClock{now: now}
}

// Now 返回不早于上一次返回值的 UTC 时间（微秒精度，与数据库列精度一致）。
func (c *MonotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC().Truncate(time.Microsecond)
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}

// FormatClock 按 UTC 渲染 HH:MM，实时推送与历史查询共用。
func FormatClock(t time.Time) string {
	return t.UTC().Format("15:04")
}
