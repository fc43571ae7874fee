package models

// Tag is a free-form label shared by many articles. Tags are created on
// demand when an article names them and are never pruned automatically.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7;default:#667eea" json:"color"`
}
