package models

import (
	"time"
)

// Article is a blog post. Content holds the editor's serialized HTML.
type Article struct {
	ID         uint       `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at" example:"2023-01-01T00:00:00Z"`
	UpdatedAt  time.Time  `json:"updated_at" example:"2023-01-01T00:00:00Z"`
	Title      string     `gorm:"not null" json:"title" example:"Sample Article Title"`
	Content    string     `gorm:"type:text" json:"content" example:"<p>Hello</p>"`
	Thumbnail  string     `json:"thumbnail" example:"https://cdn.example.com/thumbnails/1700000000-ab12cd34.png"`
	Published  bool       `gorm:"not null;default:false;index" json:"published" example:"false"`
	Categories []Category `gorm:"many2many:blog_categories;constraint:OnDelete:CASCADE" json:"categories"`
}

func (Article) TableName() string { return "blogs" }

// CategoryIDs returns the ids of the linked categories in link order.
func (a *Article) CategoryIDs() []uint {
	ids := make([]uint, 0, len(a.Categories))
	for _, c := range a.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// HasCategory reports whether the article is linked to the category.
func (a *Article) HasCategory(id uint) bool {
	for _, c := range a.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
