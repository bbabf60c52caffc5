// rentalops-crm/models/permission.go
package models

import (
	"rentalops-crm/config"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Permission представляет модель права доступа в базе данных.
// Каталог прав общий для всех арендаторов: имена прав - это строки
// возможностей, зашитые в маршруты, поэтому каталог не редактируется через
// API, а засеивается при старте из knownPermissions.
type Permission struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description"`
	Category    string `json:"category" gorm:"not null"` // Категория для группировки (e.g., "Склад", "Персонал")
}

// knownPermissions - полный набор прав, проверяемых маршрутами.
var knownPermissions = []Permission{
	{Name: "crew_view", Description: "Просмотр сотрудников", Category: "Персонал"},
	{Name: "crew_create", Description: "Добавление сотрудников", Category: "Персонал"},
	{Name: "crew_edit", Description: "Редактирование сотрудников", Category: "Персонал"},
	{Name: "crew_delete", Description: "Удаление сотрудников", Category: "Персонал"},
	{Name: "events_view", Description: "Просмотр мероприятий", Category: "Мероприятия"},
	{Name: "events_create", Description: "Создание мероприятий", Category: "Мероприятия"},
	{Name: "events_edit", Description: "Редактирование мероприятий", Category: "Мероприятия"},
	{Name: "events_delete", Description: "Удаление мероприятий", Category: "Мероприятия"},
	{Name: "assignments_view", Description: "Просмотр назначений", Category: "Мероприятия"},
	{Name: "assignments_create", Description: "Назначение сотрудников", Category: "Мероприятия"},
	{Name: "assignments_edit", Description: "Изменение назначений", Category: "Мероприятия"},
	{Name: "assignments_delete", Description: "Снятие назначений", Category: "Мероприятия"},
	{Name: "quotes_view", Description: "Просмотр смет", Category: "Сметы"},
	{Name: "quotes_create", Description: "Создание смет", Category: "Сметы"},
	{Name: "quotes_edit", Description: "Редактирование смет", Category: "Сметы"},
	{Name: "quotes_delete", Description: "Удаление смет", Category: "Сметы"},
	{Name: "quotes_accept", Description: "Принятие смет", Category: "Сметы"},
	{Name: "inventory_view", Description: "Просмотр склада", Category: "Склад"},
	{Name: "inventory_create", Description: "Добавление оборудования", Category: "Склад"},
	{Name: "inventory_edit", Description: "Редактирование оборудования", Category: "Склад"},
	{Name: "inventory_delete", Description: "Удаление оборудования", Category: "Склад"},
	{Name: "users_view", Description: "Просмотр пользователей", Category: "Администрирование"},
	{Name: "users_create", Description: "Создание пользователей", Category: "Администрирование"},
	{Name: "users_edit", Description: "Редактирование пользователей", Category: "Администрирование"},
	{Name: "users_delete", Description: "Удаление пользователей", Category: "Администрирование"},
	{Name: "roles_view", Description: "Просмотр ролей", Category: "Администрирование"},
	{Name: "roles_create", Description: "Создание ролей", Category: "Администрирование"},
	{Name: "roles_edit", Description: "Редактирование ролей", Category: "Администрирование"},
	{Name: "roles_delete", Description: "Удаление ролей", Category: "Администрирование"},
	{Name: "permissions_view", Description: "Просмотр каталога прав", Category: "Администрирование"},
}

// SeedPermissions приводит каталог прав в соответствие с knownPermissions.
// Идемпотентен: существующие записи обновляются по имени, лишние не трогаются.
func SeedPermissions(db *gorm.DB) error {
	for _, permission := range knownPermissions {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "category"}),
		}).Create(&Permission{
			Name:        permission.Name,
			Description: permission.Description,
			Category:    permission.Category,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// GetUserPermissions получает все уникальные права доступа для пользователя через его роли.
func GetUserPermissions(userID uint) ([]Permission, error) {
	var user User
	db := config.DB

	// Находим пользователя и предзагружаем его роли вместе с правами доступа
	if err := db.Preload("Roles.Permissions").First(&user, userID).Error; err != nil {
		return nil, err
	}

	// Карта для сбора уникальных прав, чтобы избежать дубликатов
	permissionMap := make(map[uint]Permission)
	for _, role := range user.Roles {
		for _, permission := range role.Permissions {
			permissionMap[permission.ID] = permission
		}
	}

	permissions := make([]Permission, 0, len(permissionMap))
	for _, permission := range permissionMap {
		permissions = append(permissions, permission)
	}

	return permissions, nil
}
