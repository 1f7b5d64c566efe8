package models

import "time"

// Comment is a user annotation owned by an Entry. UserName is a snapshot of
// the author's display name at comment time; it is intentionally not kept in
// sync with later renames so rendering a thread needs no user join.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EntryID   uint      `gorm:"not null;index" json:"entryId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UserName  string    `gorm:"not null" json:"userName"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}
