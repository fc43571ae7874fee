package models

import "time"

// Image is an uploaded binary asset with three stored resolution variants.
// ArticleID is nullable: images may live unattached in the shared media
// library. Deleting an article removes its images, rows and files both.
type Image struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Filename      string    `gorm:"size:255;not null" json:"filename"`
	OriginalPath  string    `gorm:"size:500;not null" json:"original_path"`
	MediumPath    string    `gorm:"size:500;not null" json:"medium_path"`
	ThumbnailPath string    `gorm:"size:500;not null" json:"thumbnail_path"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	SizeBytes     int64     `json:"size_bytes"`
	AltText       string    `gorm:"size:255" json:"alt_text"`
	ArticleID     *uint     `gorm:"index" json:"article_id"`
	UploadedAt    time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// Paths returns the stored filesystem paths of every variant.
func (i *Image) Paths() []string {
	return []string{i.OriginalPath, i.MediumPath, i.ThumbnailPath}
}
