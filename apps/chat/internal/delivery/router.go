// Package delivery 实时消息投递：校验、持久化、向双方在线连接扇出。
package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"DMChat/apps/chat/internal/converter"
	"DMChat/apps/chat/internal/dto"
	"DMChat/apps/chat/internal/manager"
	"DMChat/apps/chat/internal/metrics"
	"DMChat/apps/chat/internal/repository"
	"DMChat/apps/chat/internal/service"
	"DMChat/config"
	"DMChat/model"
	"DMChat/pkg/logger"
	"DMChat/pkg/util"

	"github.com/sony/gobreaker"
)

// ErrStoreUnavailable 消息库熔断中
var ErrStoreUnavailable = errors.New("message store unavailable")

// UserChecker 判断接收方是否为已注册用户
type UserChecker interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// FriendChecker 判断无序用户对是否为已接受的好友
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b int64) (bool, error)
}

// Registry 在线表的只读视图
type Registry interface {
	ChannelsFor(userID int64) []manager.Channel
}

// Delivery 一次成功路由的结果
type Delivery struct {
	Message *model.Message
	Pushed  int // 成功入队的下行帧数量（接收方 + 发送方回显）
}

// Router 消息路由：先落库再扇出，落库失败不推送
type Router struct {
	messages          repository.IMessageRepository
	users             UserChecker
	relations         FriendChecker
	registry          Registry
	clock             *util.MonotonicClock
	breaker           *gobreaker.CircuitBreaker
	requireFriendship bool
	maxContentLength  int
}

// NewRouter 创建消息路由，requireFriendship 与历史查询使用同一配置项
func NewRouter(
	cfg config.DeliveryConfig,
	messages repository.IMessageRepository,
	users UserChecker,
	relations FriendChecker,
	registry Registry,
	clock *util.MonotonicClock,
) *Router {
	if clock == nil {
		clock = util.NewMonotonicClock(nil)
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "message-store",
		Timeout: cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "熔断器状态变更",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})

	return &Router{
		messages:          messages,
		users:             users,
		relations:         relations,
		registry:          registry,
		clock:             clock,
		breaker:           breaker,
		requireFriendship: cfg.RequireFriendship,
		maxContentLength:  cfg.MaxContentLength,
	}
}

// Route 校验、持久化并扇出一条消息。
// 返回 service.ErrInvalidMessage 时消息被丢弃；返回 service.ErrNotFriends 时未落库；
// 其余错误均为存储失败，消息既未落库也未推送。
// 接收方不在线时消息照常落库，Pushed 只统计发送方回显。
func (r *Router) Route(ctx context.Context, senderID, receiverID int64, content string) (*Delivery, error) {
	if err := r.validate(ctx, senderID, receiverID, content); err != nil {
		if errors.Is(err, service.ErrInvalidMessage) {
			metrics.MessagesRouted.WithLabelValues(metrics.ResultInvalid).Inc()
		}
		return nil, err
	}

	if r.requireFriendship {
		ok, err := r.relations.AreFriends(ctx, senderID, receiverID)
		if err != nil {
			metrics.MessagesRouted.WithLabelValues(metrics.ResultFailed).Inc()
			return nil, err
		}
		if !ok {
			metrics.MessagesRouted.WithLabelValues(metrics.ResultRejected).Inc()
			return nil, service.ErrNotFriends
		}
	}

	msg, err := r.persist(ctx, &model.Message{
		SenderId:   senderID,
		ReceiverId: receiverID,
		Content:    content,
		SentAt:     r.clock.Now(),
	})
	if err != nil {
		metrics.MessagesRouted.WithLabelValues(metrics.ResultFailed).Inc()
		logger.Error(ctx, "消息持久化失败",
			logger.Int64("receiver_id", receiverID),
			logger.ErrorField("error", err),
		)
		return nil, err
	}

	receiverChans := r.registry.ChannelsFor(receiverID)
	pushed := r.fanout(ctx, msg, receiverChans, r.registry.ChannelsFor(senderID))
	if len(receiverChans) > 0 {
		metrics.MessagesRouted.WithLabelValues(metrics.ResultDelivered).Inc()
	} else {
		metrics.MessagesRouted.WithLabelValues(metrics.ResultOffline).Inc()
	}

	return &Delivery{Message: msg, Pushed: pushed}, nil
}

// validate 内容去空白后非空、长度不超限、接收方为他人且已注册
func (r *Router) validate(ctx context.Context, senderID, receiverID int64, content string) error {
	if senderID <= 0 || receiverID <= 0 || senderID == receiverID {
		return service.ErrInvalidMessage
	}
	if strings.TrimSpace(content) == "" {
		return service.ErrInvalidMessage
	}
	if r.maxContentLength > 0 && utf8.RuneCountInString(content) > r.maxContentLength {
		return service.ErrInvalidMessage
	}

	exists, err := r.users.Exists(ctx, receiverID)
	if err != nil {
		return err
	}
	if !exists {
		return service.ErrInvalidMessage
	}
	return nil
}

// persist 经熔断器写库，熔断打开时快速失败
func (r *Router) persist(ctx context.Context, msg *model.Message) (*model.Message, error) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.messages.Create(ctx, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil, err
	}
	return out.(*model.Message), nil
}

// fanout 同一帧推送到接收方与发送方的全部 channel，单个 channel 失败不影响其他
func (r *Router) fanout(ctx context.Context, msg *model.Message, groups ...[]manager.Channel) int {
	frame, err := converter.MarshalEnvelope(dto.FrameReceiveMessage, converter.ModelToMessageItem(msg))
	if err != nil {
		logger.Error(ctx, "下行消息序列化失败",
			logger.Int64("message_id", msg.Id),
			logger.ErrorField("error", err),
		)
		return 0
	}

	pushed := 0
	for _, chans := range groups {
		for _, ch := range chans {
			if ch.Enqueue(frame) {
				pushed++
				continue
			}
			logger.Warn(ctx, "下行队列不可写，丢弃推送",
				logger.Int64("message_id", msg.Id),
				logger.Int64("target_channel_id", ch.ID()),
			)
		}
	}
	metrics.FanoutPushes.Add(float64(pushed))
	return pushed
}
