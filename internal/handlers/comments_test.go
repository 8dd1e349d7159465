package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devoverflow/backend/internal/models"
)

func TestCreateAndListQuestionComments(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 0)
	commenter := createTestUser(t, db, "commenter", 0)
	question := createTestQuestion(t, db, author)

	w := doRequest(t, r, http.MethodPost,
		fmt.Sprintf("/api/questions/%d/comments", question.ID),
		gin.H{"content": "could you share the error output?"},
		authToken(t, commenter))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, r, http.MethodGet,
		fmt.Sprintf("/api/questions/%d/comments", question.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	comments := body["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "could you share the error output?",
		comments[0].(map[string]interface{})["content"])
}

func TestCreateCommentValidation(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 0)
	commenter := createTestUser(t, db, "commenter", 0)
	question := createTestQuestion(t, db, author)
	token := authToken(t, commenter)

	w := doRequest(t, r, http.MethodPost,
		fmt.Sprintf("/api/questions/%d/comments", question.ID),
		gin.H{"content": "hi"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "too short")

	w = doRequest(t, r, http.MethodPost, "/api/questions/9999/comments",
		gin.H{"content": "a comment on nothing"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code, "missing parent")
}

func TestUpdateCommentOwnership(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 0)
	other := createTestUser(t, db, "other", 0)
	question := createTestQuestion(t, db, author)

	comment := models.Comment{
		Content:    "original comment text",
		AuthorID:   author.ID,
		ParentType: models.ParentTypeQuestion,
		ParentID:   question.ID,
	}
	require.NoError(t, db.Create(&comment).Error)

	w := doRequest(t, r, http.MethodPut,
		fmt.Sprintf("/api/comments/%d", comment.ID),
		gin.H{"content": "edited by someone else"}, authToken(t, other))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPut,
		fmt.Sprintf("/api/comments/%d", comment.ID),
		gin.H{"content": "edited by the author"}, authToken(t, author))
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Comment
	require.NoError(t, db.First(&stored, comment.ID).Error)
	assert.Equal(t, "edited by the author", stored.Content)
}

func TestDeleteComment(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	author := createTestUser(t, db, "author", 0)
	question := createTestQuestion(t, db, author)

	comment := models.Comment{
		Content:    "a comment to delete",
		AuthorID:   author.ID,
		ParentType: models.ParentTypeQuestion,
		ParentID:   question.ID,
	}
	require.NoError(t, db.Create(&comment).Error)

	w := doRequest(t, r, http.MethodDelete,
		fmt.Sprintf("/api/comments/%d", comment.ID), nil, authToken(t, author))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
