package domain

import "time"

// Role роль пользователя в системе
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleViewer     Role = "viewer"
	RoleUser       Role = "user"
)

// Valid известна ли роль
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleViewer, RoleUser:
		return true
	}
	return false
}

// User учётная запись покупателя или сотрудника
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" validate:"required"`
	Email     string     `json:"email" validate:"required,email"`
	Phone     string     `json:"phone,omitempty"`
	Role      Role       `json:"role" validate:"required,oneof=super_admin admin editor viewer user"`
	IsBlocked bool       `json:"is_blocked"`
	IsDeleted bool       `json:"is_deleted,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}
