package models

// Role 參與者角色，只作為資訊記錄，不做權限判斷
type Role string

const (
	RoleClient Role = "CLIENT" // 顧客
	RoleAdmin  Role = "ADMIN"  // 工作人員
)

// Identity 由外部身分服務驗證後交給本服務的使用者名稱與角色
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Known 判斷角色是否為已知的角色
func (r Role) Known() bool {
	return r == RoleClient || r == RoleAdmin
}
