// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// EntryCategory classifies a heritage entry.
type EntryCategory string

const (
	CategoryTemple      EntryCategory = "temple"
	CategoryAncientTech EntryCategory = "ancient-tech"
	CategoryFestival    EntryCategory = "festival"
	CategoryMonument    EntryCategory = "monument"
	CategoryArt         EntryCategory = "art"
	CategoryTradition   EntryCategory = "tradition"
	CategoryOther       EntryCategory = "other"
)

// Categories is the closed set of valid entry categories.
var Categories = []EntryCategory{
	CategoryTemple,
	CategoryAncientTech,
	CategoryFestival,
	CategoryMonument,
	CategoryArt,
	CategoryTradition,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c EntryCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Entry represents a heritage article: the root aggregate with its likes,
// comments and views. Likes and comments live in their own tables so that
// membership changes are row-level atomic instead of whole-document rewrites.
type Entry struct {
	ID              uint                         `gorm:"primaryKey" json:"id"`
	Title           string                       `gorm:"not null" json:"title"`
	Category        EntryCategory                `gorm:"type:varchar(20);not null;index" json:"category"`
	ImageURLs       datatypes.JSONSlice[string]  `json:"imageUrls"`
	Content         string                       `gorm:"type:text;not null" json:"content"`
	Location        string                       `gorm:"not null" json:"location"`
	Views           int64                        `gorm:"not null;default:0" json:"views"`
	Slug            string                       `gorm:"uniqueIndex;not null" json:"slug"`
	MetaDescription string                       `gorm:"default:''" json:"metaDescription"`
	Keywords        datatypes.JSONSlice[string]  `json:"keywords"`
	CreatedByID     uint                         `gorm:"index" json:"createdById"`
	CreatedBy       *User                        `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->" json:"likesCount"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int64 `gorm:"->" json:"commentsCount"`
	// Liked indicates whether the current requesting user liked this entry (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Entry) TableName() string {
	return "entries"
}
