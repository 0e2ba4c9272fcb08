package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"chat_service/internal/models"
)

// 上游身分服務驗證後附加的標頭
const (
	HeaderUsername = "X-User-Name"
	HeaderRole     = "X-User-Role"

	UsernameKey = "username"
	RoleKey     = "role"
)

// TrustedIdentity 把上游附加的使用者名稱與角色放進上下文
// 標頭不存在時照常放行，這裡不做任何授權判斷
func TrustedIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if username := strings.TrimSpace(c.GetHeader(HeaderUsername)); username != "" {
			c.Set(UsernameKey, username)
			c.Set(RoleKey, strings.TrimSpace(c.GetHeader(HeaderRole)))
		}
		c.Next()
	}
}

// GetIdentity 取出 TrustedIdentity 放進上下文的身分
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	username, ok := c.Get(UsernameKey)
	if !ok {
		return models.Identity{}, false
	}
	role, _ := c.Get(RoleKey)
	roleStr, _ := role.(string)
	return models.Identity{Username: username.(string), Role: roleStr}, true
}
