package models

// Category is a named label shared across articles. Names are unique.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id" example:"1"`
	Name string `gorm:"uniqueIndex;not null" json:"name" example:"golang"`
}
