package converter

import (
	"DMChat/apps/chat/internal/dto"
	"encoding/json"
	"errors"
	"strings"
)

// ErrFrameTypeRequired 上行帧缺少 type
var ErrFrameTypeRequired = errors.New("type is required")

// ParseEnvelope 解析客户端上行帧，JSON 不合法或 type 缺失时返回错误
func ParseEnvelope(raw []byte) (*dto.Envelope, error) {
	var envelope dto.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	envelope.Type = strings.TrimSpace(envelope.Type)
	if envelope.Type == "" {
		return nil, ErrFrameTypeRequired
	}
	return &envelope, nil
}

// MarshalEnvelope 组装下行帧，data=nil 时省略 data 字段
func MarshalEnvelope(msgType string, data any) ([]byte, error) {
	envelope := map[string]any{
		"type": msgType,
	}
	if data != nil {
		envelope["data"] = data
	}
	return json.Marshal(envelope)
}

// DecodeData 按帧类型解析 data，data 缺失视为格式错误
func DecodeData(envelope *dto.Envelope, out any) error {
	if len(envelope.Data) == 0 {
		return errors.New("data is required")
	}
	return json.Unmarshal(envelope.Data, out)
}
