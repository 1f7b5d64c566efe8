package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"heritage/internal/models"
	"heritage/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := seedTestUser(t, db, "admin", true)
	member := seedTestUser(t, db, "member", false)
	entry := seedTestEntry(t, db, admin.ID, "Ellora Caves", "ellora-caves")

	app := newTestApp(member.ID)
	app.Post("/api/entries/:id/comments", s.CreateComment)

	post := func(t *testing.T, entryID uint, text string) *http.Response {
		t.Helper()
		body, _ := json.Marshal(map[string]string{"text": text})
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/entries/%d/comments", entryID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("returns the full ordered list", func(t *testing.T) {
		resp := post(t, entry.ID, "first!")
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp2 := post(t, entry.ID, "  second, with padding  ")
		defer func() { _ = resp2.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp2.StatusCode)

		var comments []models.Comment
		require.NoError(t, json.NewDecoder(resp2.Body).Decode(&comments))
		require.Len(t, comments, 2)
		assert.Equal(t, "first!", comments[0].Text)
		assert.Equal(t, "second, with padding", comments[1].Text)
		assert.Equal(t, member.Name, comments[1].UserName)
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		resp := post(t, entry.ID, "   ")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing entry is 404", func(t *testing.T) {
		resp := post(t, 5555, "hello?")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetComments(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := seedTestUser(t, db, "admin", true)
	entry := seedTestEntry(t, db, admin.ID, "Khajuraho", "khajuraho")

	app := newTestApp(0)
	app.Get("/api/entries/:id/comments", s.GetComments)

	t.Run("empty list is a JSON array", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/entries/%d/comments", entry.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comments []models.Comment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("missing entry is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/entries/8888/comments", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := seedTestUser(t, db, "admin", true)
	author := seedTestUser(t, db, "author", false)
	other := seedTestUser(t, db, "other", false)
	entry := seedTestEntry(t, db, admin.ID, "Mahabalipuram", "mahabalipuram")
	otherEntry := seedTestEntry(t, db, admin.ID, "Brihadisvara", "brihadisvara")

	newComment := func(t *testing.T) *models.Comment {
		t.Helper()
		comment := &models.Comment{EntryID: entry.ID, UserID: author.ID, UserName: author.Name, Text: "shore temple"}
		require.NoError(t, db.Create(comment).Error)
		return comment
	}

	deleteWith := func(t *testing.T, userID, entryID, commentID uint) int {
		t.Helper()
		app := newTestApp(userID)
		app.Delete("/api/entries/:id/comments/:commentId", s.DeleteComment)
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/entries/%d/comments/%d", entryID, commentID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode
	}

	t.Run("author deletes own comment", func(t *testing.T) {
		comment := newComment(t)
		assert.Equal(t, http.StatusNoContent, deleteWith(t, author.ID, entry.ID, comment.ID))
	})

	t.Run("admin deletes any comment", func(t *testing.T) {
		comment := newComment(t)
		assert.Equal(t, http.StatusNoContent, deleteWith(t, admin.ID, entry.ID, comment.ID))
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		comment := newComment(t)
		assert.Equal(t, http.StatusForbidden, deleteWith(t, other.ID, entry.ID, comment.ID))
	})

	t.Run("comment under a different entry is 404", func(t *testing.T) {
		comment := newComment(t)
		assert.Equal(t, http.StatusNotFound, deleteWith(t, author.ID, otherEntry.ID, comment.ID))
	})

	t.Run("already deleted is 404", func(t *testing.T) {
		comment := newComment(t)
		require.Equal(t, http.StatusNoContent, deleteWith(t, author.ID, entry.ID, comment.ID))
		assert.Equal(t, http.StatusNotFound, deleteWith(t, author.ID, entry.ID, comment.ID))
	})
}

func TestDeleteCommentModerationNotice(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	s.hub = notifications.NewHub()
	admin := seedTestUser(t, db, "admin", true)
	author := seedTestUser(t, db, "author", false)
	entry := seedTestEntry(t, db, admin.ID, "Mahabalipuram", "mahabalipuram")

	authorClient, err := s.hub.Register(author.ID, nil)
	require.NoError(t, err)

	deleteWith := func(t *testing.T, userID, commentID uint) {
		t.Helper()
		app := newTestApp(userID)
		app.Delete("/api/entries/:id/comments/:commentId", s.DeleteComment)
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/entries/%d/comments/%d", entry.ID, commentID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	drainExpecting := func(t *testing.T, wantType string) {
		t.Helper()
		found := false
		for {
			select {
			case raw := <-authorClient.Send:
				var event struct {
					Type string `json:"type"`
				}
				require.NoError(t, json.Unmarshal(raw, &event))
				if event.Type == wantType {
					found = true
				}
			default:
				require.True(t, found, "expected a %s event for the author", wantType)
				return
			}
		}
	}

	drainNotExpecting := func(t *testing.T, wrongType string) {
		t.Helper()
		for {
			select {
			case raw := <-authorClient.Send:
				var event struct {
					Type string `json:"type"`
				}
				require.NoError(t, json.Unmarshal(raw, &event))
				require.NotEqual(t, wrongType, event.Type)
			default:
				return
			}
		}
	}

	comment := &models.Comment{EntryID: entry.ID, UserID: author.ID, UserName: author.Name, Text: "shore temple"}
	require.NoError(t, db.Create(comment).Error)
	deleteWith(t, admin.ID, comment.ID)
	drainExpecting(t, EventCommentRemoved)

	// Deleting your own comment is not moderation.
	comment = &models.Comment{EntryID: entry.ID, UserID: author.ID, UserName: author.Name, Text: "again"}
	require.NoError(t, db.Create(comment).Error)
	deleteWith(t, author.ID, comment.ID)
	drainNotExpecting(t, EventCommentRemoved)
}
