package models

import "time"

// Category is a node in the category forest. Name is nullable but unique
// when present; deleting a parent detaches its children.
type Category struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      *string    `gorm:"size:255;uniqueIndex" json:"name"`
	ParentID  *uint      `gorm:"index" json:"parent_id"`
	Children  []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	Slug      string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	GroupName string     `gorm:"size:255" json:"group_name"`
	Image     string     `gorm:"size:500" json:"image"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DisplayName returns the name, or the slug for unnamed categories.
func (c Category) DisplayName() string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return c.Slug
}

// NameValue returns the name or "".
func (c Category) NameValue() string {
	if c.Name == nil {
		return ""
	}
	return *c.Name
}
