package manager

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultSendQueueSize = 64
	wsWriteTimeout       = 5 * time.Second
	wsMaxFrameSize       = 64 * 1024
)

// MessageHandler 上行帧回调，raw 为客户端原始载荷
type MessageHandler func(raw []byte)

// CloseHandler 连接关闭回调，读写循环退出后执行清理（如从 registry 移除）
type CloseHandler func()

// Client 封装单条 WebSocket 连接，即一个 live channel。
// send 队列削峰，业务 goroutine 不直接阻塞在网络写上；
// done 为统一关闭信号；once 保证 Close 幂等。
// userID 在握手时绑定，连接生命周期内不变。
type Client struct {
	conn   *websocket.Conn
	id     int64
	userID int64
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

// NewClient 创建连接包装对象，id 为进程内唯一的通道句柄
func NewClient(conn *websocket.Conn, id, userID int64) *Client {
	return &Client{
		conn:   conn,
		id:     id,
		userID: userID,
		send:   make(chan []byte, defaultSendQueueSize),
		done:   make(chan struct{}),
	}
}

func (c *Client) ID() int64 {
	return c.id
}

func (c *Client) UserID() int64 {
	return c.userID
}

// Done 返回连接关闭信号通道
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Enqueue 将待发送消息投递到写队列。
// false 表示连接已关闭或队列已满，调用方可选择断开连接或丢弃消息。
func (c *Client) Enqueue(msg []byte) bool {
	if len(msg) == 0 {
		return true
	}
	cloned := append([]byte(nil), msg...)
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case <-c.done:
		return false
	case c.send <- cloned:
		return true
	default:
		return false
	}
}

// Run 启动读写循环并阻塞到 readLoop 结束，退出时保证执行 Close 与 onClose
func (c *Client) Run(ctx context.Context, onMessage MessageHandler, onClose CloseHandler) {
	defer func() {
		c.Close()
		if onClose != nil {
			onClose()
		}
	}()

	c.conn.SetReadLimit(wsMaxFrameSize)
	go c.writeLoop(ctx)
	c.readLoop(ctx, onMessage)
}

// Close 幂等关闭：先发关闭信号，再关闭底层连接
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// readLoop 退出条件：ctx cancel、关闭信号、网络读错误
func (c *Client) readLoop(ctx context.Context, onMessage MessageHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if onMessage != nil {
			onMessage(raw)
		}
	}
}

// writeLoop 每次写设置超时，慢连接不会长期占用写协程
func (c *Client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.Close()
			return
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		}
	}
}
