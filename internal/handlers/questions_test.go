package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devoverflow/backend/internal/models"
)

func createTestQuestion(t *testing.T, db *gorm.DB, author models.User) models.Question {
	t.Helper()
	question := models.Question{
		Title:    "How do I do the thing with the other thing?",
		Content:  strings.Repeat("Some question content that is long enough. ", 2),
		AuthorID: author.ID,
		Status:   models.StatusOpen,
	}
	require.NoError(t, db.Create(&question).Error)
	return question
}

func TestCreateQuestion(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	user := createTestUser(t, db, "asker", 0)

	w := doRequest(t, r, http.MethodPost, "/api/questions", gin.H{
		"title":   "How do I parse a timestamp in this language?",
		"content": strings.Repeat("I tried several formats and none of them work. ", 2),
		"tags":    []string{"parsing", "Date Time"},
	}, authToken(t, user))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var question models.Question
	require.NoError(t, db.Preload("Tags").Where("author_id = ?", user.ID).First(&question).Error)
	assert.Equal(t, models.StatusOpen, question.Status)
	require.Len(t, question.Tags, 2)

	slugs := []string{question.Tags[0].Slug, question.Tags[1].Slug}
	assert.Contains(t, slugs, "parsing")
	assert.Contains(t, slugs, "date-time")
}

func TestCreateQuestionRequiresAuth(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	w := doRequest(t, r, http.MethodPost, "/api/questions", gin.H{
		"title":   "A perfectly reasonable question title",
		"content": strings.Repeat("content ", 10),
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateQuestionValidatesLength(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	user := createTestUser(t, db, "asker", 0)
	token := authToken(t, user)

	w := doRequest(t, r, http.MethodPost, "/api/questions", gin.H{
		"title":   "too short",
		"content": strings.Repeat("content ", 10),
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/questions", gin.H{
		"title":   "A perfectly reasonable question title",
		"content": "too short",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBannedUserCannotPost(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	user := createTestUser(t, db, "banned_user", 0)
	require.NoError(t, db.Model(&user).Update("is_banned", true).Error)

	w := doRequest(t, r, http.MethodPost, "/api/questions", gin.H{
		"title":   "A perfectly reasonable question title",
		"content": strings.Repeat("content ", 10),
	}, authToken(t, user))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVoteQuestionFlow(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 50)
	voter := createTestUser(t, db, "voter", 0)
	question := createTestQuestion(t, db, author)

	path := fmt.Sprintf("/api/questions/%d/vote", question.ID)
	token := authToken(t, voter)

	// Upvote: votes 1, author reputation 50 -> 55.
	w := doRequest(t, r, http.MethodPost, path, gin.H{"vote_type": "upvote"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	q := body["question"].(map[string]interface{})
	assert.EqualValues(t, 1, q["votes"])
	assert.Equal(t, true, q["has_upvoted"])
	assert.EqualValues(t, 55, body["author_reputation"])

	// Switch to downvote: votes -1, reputation 55 -> 48.
	w = doRequest(t, r, http.MethodPost, path, gin.H{"vote_type": "downvote"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	q = body["question"].(map[string]interface{})
	assert.EqualValues(t, -1, q["votes"])
	assert.Equal(t, true, q["has_downvoted"])
	assert.EqualValues(t, 48, body["author_reputation"])

	// Repeating the downvote toggles it off: votes 0, reputation restored.
	w = doRequest(t, r, http.MethodPost, path, gin.H{"vote_type": "downvote"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	q = body["question"].(map[string]interface{})
	assert.EqualValues(t, 0, q["votes"])
	assert.Equal(t, false, q["has_upvoted"])
	assert.Equal(t, false, q["has_downvoted"])
	assert.EqualValues(t, 50, body["author_reputation"])

	var stored models.User
	require.NoError(t, db.First(&stored, author.ID).Error)
	assert.Equal(t, 50, stored.Reputation)
}

func TestVoteQuestionSelfVoteForbidden(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 50)
	question := createTestQuestion(t, db, author)

	w := doRequest(t, r, http.MethodPost,
		fmt.Sprintf("/api/questions/%d/vote", question.ID),
		gin.H{"vote_type": "upvote"}, authToken(t, author))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, author.ID).Error)
	assert.Equal(t, 50, stored.Reputation, "reputation must be untouched")
}

func TestVoteQuestionInvalidType(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 0)
	voter := createTestUser(t, db, "voter", 0)
	question := createTestQuestion(t, db, author)

	w := doRequest(t, r, http.MethodPost,
		fmt.Sprintf("/api/questions/%d/vote", question.ID),
		gin.H{"vote_type": "sideways"}, authToken(t, voter))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoteQuestionRequiresAuth(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 0)
	question := createTestQuestion(t, db, author)

	w := doRequest(t, r, http.MethodPost,
		fmt.Sprintf("/api/questions/%d/vote", question.ID),
		gin.H{"vote_type": "upvote"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetQuestionViews(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 0)
	reader := createTestUser(t, db, "reader", 0)
	question := createTestQuestion(t, db, author)

	path := fmt.Sprintf("/api/questions/%d", question.ID)

	// The author viewing their own question does not count.
	w := doRequest(t, r, http.MethodGet, path, nil, authToken(t, author))
	require.Equal(t, http.StatusOK, w.Code)

	// Anonymous and other-user views count.
	doRequest(t, r, http.MethodGet, path, nil, "")
	doRequest(t, r, http.MethodGet, path, nil, authToken(t, reader))

	var stored models.Question
	require.NoError(t, db.First(&stored, question.ID).Error)
	assert.Equal(t, 2, stored.Views)
}

func TestGetQuestionsPagination(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 0)
	for i := 0; i < 5; i++ {
		createTestQuestion(t, db, author)
	}

	w := doRequest(t, r, http.MethodGet, "/api/questions?page=1&limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	assert.Len(t, body["questions"], 2)
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 3, pagination["total_pages"])
	assert.EqualValues(t, 5, pagination["total_questions"])
	assert.Equal(t, true, pagination["has_more"])
}

func TestDeleteQuestionCascades(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 0)
	answerer := createTestUser(t, db, "answerer", 0)
	question := createTestQuestion(t, db, author)

	answer := models.Answer{
		Content:    strings.Repeat("answer content ", 3),
		AuthorID:   answerer.ID,
		QuestionID: question.ID,
	}
	require.NoError(t, db.Create(&answer).Error)
	require.NoError(t, db.Create(&models.Comment{
		Content:    "a comment on the question",
		AuthorID:   answerer.ID,
		ParentType: models.ParentTypeQuestion,
		ParentID:   question.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Comment{
		Content:    "a comment on the answer",
		AuthorID:   author.ID,
		ParentType: models.ParentTypeAnswer,
		ParentID:   answer.ID,
	}).Error)

	// Only the author may delete.
	w := doRequest(t, r, http.MethodDelete,
		fmt.Sprintf("/api/questions/%d", question.ID), nil, authToken(t, answerer))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete,
		fmt.Sprintf("/api/questions/%d", question.ID), nil, authToken(t, author))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	db.Model(&models.Question{}).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.Answer{}).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
