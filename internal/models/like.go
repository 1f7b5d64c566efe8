package models

import "time"

// Like records a single user's membership in an entry's like set. The
// composite unique index makes duplicate membership impossible at the store
// level, so toggling is a row insert/delete rather than a document rewrite.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EntryID   uint      `gorm:"not null;uniqueIndex:idx_entry_user_like" json:"entryId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_entry_user_like" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Like) TableName() string {
	return "likes"
}
