package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'technician'" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	Permissions []Permission `gorm:"many2many:user_permissions;" json:"permissions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasPermission(name string) bool {
	if u.IsAdmin() {
		return true
	}
	for _, p := range u.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}

type Permission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:60;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

// DefaultPermissions is seeded by the migrate command.
var DefaultPermissions = []Permission{
	{Name: "customers.write", Description: "Criar e editar clientes e veículos"},
	{Name: "services.write", Description: "Criar, editar e mudar status de serviços"},
	{Name: "services.delete", Description: "Excluir serviços encerrados"},
	{Name: "payments.write", Description: "Registrar e estornar pagamentos"},
	{Name: "service_types.write", Description: "Gerenciar o catálogo de serviços"},
	{Name: "dashboard.view_all", Description: "Ver o painel de todos os técnicos"},
}
