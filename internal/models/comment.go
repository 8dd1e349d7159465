package models

import "time"

const (
	ParentTypeQuestion = "question"
	ParentTypeAnswer   = "answer"
)

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"not null" json:"content"`
	AuthorID int    `json:"author_id"`
	User     User   `gorm:"foreignKey:AuthorID" json:"user"`

	ParentType string `gorm:"index:idx_comment_parent" json:"parent_type"`
	ParentID   int    `gorm:"index:idx_comment_parent" json:"parent_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}
