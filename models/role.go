package models

// Role определяет модель роли в базе данных. Роли принадлежат арендатору:
// каждый управляет своим набором, имена уникальны в пределах арендатора.
type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	TenantID    uint         `json:"tenantId" gorm:"uniqueIndex:idx_roles_tenant_name;index;not null"`
	Name        string       `json:"name" gorm:"uniqueIndex:idx_roles_tenant_name;not null"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions" gorm:"many2many:role_permissions;"`
}
