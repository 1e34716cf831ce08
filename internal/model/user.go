package model

import "time"

// UserRole 使用者角色
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleOrganizer UserRole = "organizer"
	UserRoleClient    UserRole = "client"
)

// IsValid 驗證角色是否有效
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleOrganizer, UserRoleClient:
		return true
	}
	return false
}

// User 使用者模型
// 核心只把 User 當成預訂的擁有者與活動的主辦方，認證機制不在此層
type User struct {
	ID        int        `json:"id" db:"id"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	Email     string     `json:"email" db:"email"`
	Role      UserRole   `json:"role" db:"role"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"required"`
}

type UpdateUserParams struct {
	FirstName *string
	LastName  *string
	Role      *UserRole
	Active    *bool
}
