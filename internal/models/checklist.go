package models

import "time"

// Checklist is a named container of items owned by one user.
type Checklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChecklistDetail is a checklist together with its item forest.
type ChecklistDetail struct {
	Checklist
	Items []*ItemNode `json:"items"`
}
