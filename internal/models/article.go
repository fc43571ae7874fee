// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Article is the primary content entity. Slug, reading time and cover image
// are derived fields computed by the service layer; the relational row is the
// authoritative record and the search index mirrors it best-effort.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null;index" json:"title"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Summary     string    `gorm:"size:500" json:"summary"`
	Author      string    `gorm:"size:100" json:"author"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	IsPublished bool      `gorm:"default:true;index" json:"is_published"`
	Featured    bool      `gorm:"default:false" json:"featured"`
	ViewCount   int       `gorm:"default:0" json:"view_count"`
	ReadingTime int       `gorm:"default:1" json:"reading_time"`
	CoverImage  string    `gorm:"size:500" json:"cover_image"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Images      []Image   `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"images"`
	Tags        []Tag     `gorm:"many2many:article_tags;constraint:OnDelete:CASCADE" json:"tags"`
}

// TagNames returns the names of the article's tags in association order.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}

// CategoryName returns the category name or "" when the article has none.
func (a *Article) CategoryName() string {
	if a.Category == nil {
		return ""
	}
	return a.Category.Name
}
