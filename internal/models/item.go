package models

import "time"

// Item is one entry of a checklist. A nil ParentItemID marks a root item.
type Item struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ChecklistID  uint      `gorm:"index;not null" json:"checklist_id"`
	ParentItemID *uint     `gorm:"index" json:"parent_item_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	URL          *string   `gorm:"size:2048" json:"url"`
	Checked      bool      `gorm:"not null;default:false" json:"checked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ItemNode is an item with its direct children in the order they were read.
type ItemNode struct {
	*Item
	Subitems []*ItemNode `json:"subitems"`
}

// NewItemNode wraps item in a node with an empty child list.
func NewItemNode(item *Item) *ItemNode {
	return &ItemNode{Item: item, Subitems: []*ItemNode{}}
}

// ItemRef is the id to parent projection of an item row.
type ItemRef struct {
	ID           uint
	ParentItemID *uint
}

// ItemWithChildren is a single item and its direct subitems.
type ItemWithChildren struct {
	*Item
	Subitems []*Item `json:"subitems"`
}
