package dto

// ==================== 好友相关 DTO ====================

// SearchFriendRequest 按邮箱或用户名搜索并发起好友申请
type SearchFriendRequest struct {
	SearchTerm string `form:"search_term" json:"search_term"` // 邮箱或用户名，为空时由服务层返回提示
}

// HandleFriendRequestRequest 处理好友申请
type HandleFriendRequestRequest struct {
	RequestID int64  `form:"request_id" json:"request_id" binding:"required,gt=0"` // 申请id
	Action    string `form:"action" json:"action" binding:"required"`              // accept | decline
}

// FriendItem 好友列表项
type FriendItem struct {
	ID       int64  `json:"id"`       // 好友用户id
	Username string `json:"username"` // 用户名
	Email    string `json:"email"`    // 邮箱
}

// FriendRequestItem 收到的待处理申请
type FriendRequestItem struct {
	RequestID         int64  `json:"request_id"`         // 申请id
	RequesterID       int64  `json:"requester_id"`       // 申请人id
	RequesterUsername string `json:"requester_username"` // 申请人用户名
	CreatedAt         int64  `json:"created_at"`         // 申请时间（毫秒时间戳）
}
