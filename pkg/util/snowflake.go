package util

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	sfOnce sync.Once
	sfNode *snowflake.Node
	sfErr  error
)

// InitSnowflake 初始化雪花节点。单进程部署固定使用节点 1，重复调用无副作用。
func InitSnowflake(nodeID int64) error {
	sfOnce.Do(func() {
		sfNode, sfErr = snowflake.NewNode(nodeID)
	})
	return sfErr
}

func node() *snowflake.Node {
	if sfNode == nil {
		// 测试等未显式初始化的场景
		_ = InitSnowflake(1)
	}
	return sfNode
}

// GenID 生成 int64 雪花 ID（连接句柄 ID）。
func GenID() int64 {
	return node().Generate().Int64()
}

// GenIDString 生成字符串雪花 ID（会话 ID）。
func GenIDString() string {
	return node().Generate().String()
}
