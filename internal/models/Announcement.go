package models

import "gorm.io/gorm"

// Announcement is an estate-wide notice published by management.
type Announcement struct {
	gorm.Model
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}
