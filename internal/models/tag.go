package models

import "time"

type Tag struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Slug        string `gorm:"unique;not null" json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	UsageCount  int    `gorm:"default:0" json:"usage_count"`

	CreatedAt time.Time `json:"created_at"`
}

type CreateTagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
