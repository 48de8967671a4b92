package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ==================== WebSocket 帧类型 ====================

// 上行
const (
	FrameJoin        = "join"
	FrameSendMessage = "send_message"
	FrameHeartbeat   = "heartbeat"
)

// 下行
const (
	FrameJoined         = "joined"
	FrameReceiveMessage = "receive_message"
	FrameHeartbeatAck   = "heartbeat_ack"
	FrameError          = "error"
)

// Envelope WebSocket 通用帧：type 决定 data 的结构
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// FlexID 兼容 123 与 "123" 两种写法的用户 id
type FlexID int64

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*id = FlexID(v)
	return nil
}

// JoinData 加入房间，room 为用户 id
type JoinData struct {
	Room FlexID `json:"room"`
}

// JoinedData 加入成功回执
type JoinedData struct {
	Room string `json:"room"`
}

// SendMessageData 发送消息
type SendMessageData struct {
	ReceiverID FlexID `json:"receiver_id"`
	Message    string `json:"message"`
}

// ErrorData type=error 时的 data
type ErrorData struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}
