package models

import "time"

const (
	StatusOpen   = "open"
	StatusSolved = "solved"
	StatusClosed = "closed"
)

type Question struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"not null" json:"content"`
	AuthorID int    `json:"author_id"`
	User     User   `gorm:"foreignKey:AuthorID" json:"user"`
	Tags     []Tag  `gorm:"many2many:question_tags" json:"tags"`
	Views    int    `gorm:"default:0" json:"views"`

	VoteState `gorm:"embedded"`

	// Status is "solved" exactly when AcceptedAnswerID is set; "closed" is an
	// independent terminal state that blocks new answers.
	AcceptedAnswerID *int   `json:"accepted_answer_id,omitempty"`
	Status           string `gorm:"default:open" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateQuestionRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}
