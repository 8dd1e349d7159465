package models

import "time"

type Answer struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	Content    string `gorm:"not null" json:"content"`
	AuthorID   int    `json:"author_id"`
	User       User   `gorm:"foreignKey:AuthorID" json:"user"`
	QuestionID int    `gorm:"index" json:"question_id"`

	VoteState `gorm:"embedded"`

	// At most one answer per question is accepted, and that answer's ID
	// matches its question's AcceptedAnswerID.
	IsAccepted bool `gorm:"default:false" json:"is_accepted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	Content string `json:"content"`
}
