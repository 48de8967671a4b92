package dto

// ==================== 认证相关 DTO ====================

// RegisterRequest 注册请求，支持表单与 JSON
type RegisterRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email,max=120"`    // 邮箱
	Username string `form:"username" json:"username" binding:"required,min=1,max=80"` // 用户名
	Password string `form:"password" json:"password" binding:"required,min=6,max=72"` // 密码
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`       // 邮箱
	Password string `form:"password" json:"password" binding:"required"` // 密码
}

// UserInfo 对外暴露的用户信息，不含密码哈希
type UserInfo struct {
	ID       int64  `json:"id"`       // 用户id
	Email    string `json:"email"`    // 邮箱
	Username string `json:"username"` // 用户名
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string    `json:"token"`     // 会话令牌，HTTP 用 Bearer，WebSocket 用 ?token=
	SessionID string    `json:"sessionId"` // 会话id
	User      *UserInfo `json:"user"`      // 当前用户
}
