package server

import (
	"net/http"
	"testing"

	"github.com/blogsphere/blogsphere/model"
	"github.com/stretchr/testify/require"
)

func (s *testServer) createComment(t *testing.T, token, blogID, text string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/blogs/"+blogID+"/comments", token,
		map[string]interface{}{"text": text})
	require.Equal(t, http.StatusOK, w.Code)
	return decode(t, w)["Id"].(string)
}

func TestAllowCommentsGate(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	s.signup(t, bobToken)

	blogID := s.createBlog(t, aliceToken, "Quiet please", "published")

	w := s.do(t, http.MethodPut, "/api/users/me/settings", aliceToken,
		map[string]interface{}{"allowComments": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/blogs/"+blogID+"/comments", bobToken,
		map[string]interface{}{"text": "am I allowed?"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// The author can always comment on their own blog.
	s.createComment(t, aliceToken, blogID, "author's note")
}

func TestReplies(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	s.signup(t, bobToken)

	blogID := s.createBlog(t, aliceToken, "Discussion thread", "published")
	commentID := s.createComment(t, bobToken, blogID, "first")

	w := s.do(t, http.MethodPost, "/api/comments/"+commentID+"/replies", aliceToken,
		map[string]interface{}{"text": "thanks for reading"})
	require.Equal(t, http.StatusOK, w.Code)

	detail := decode(t, s.do(t, http.MethodGet, "/api/blogs/"+blogID, aliceToken, nil))
	comments := detail["blog"].(map[string]interface{})["comments"].([]interface{})
	require.Len(t, comments, 1)
	replies := comments[0].(map[string]interface{})["replies"].([]interface{})
	require.Len(t, replies, 1)
}

func TestCommentReactionsAreExclusive(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	s.signup(t, bobToken)

	blogID := s.createBlog(t, aliceToken, "Controversial take", "published")
	commentID := s.createComment(t, aliceToken, blogID, "hot take")

	counts := decode(t, s.do(t, http.MethodPost, "/api/comments/"+commentID+"/like", bobToken, nil))
	require.EqualValues(t, 1, counts["likes"])
	require.EqualValues(t, 0, counts["dislikes"])

	// Switching replaces the reaction, it never doubles up.
	counts = decode(t, s.do(t, http.MethodPost, "/api/comments/"+commentID+"/dislike", bobToken, nil))
	require.EqualValues(t, 0, counts["likes"])
	require.EqualValues(t, 1, counts["dislikes"])

	var rows int64
	s.db.Model(&model.CommentReaction{}).Count(&rows)
	require.EqualValues(t, 1, rows)

	// Repeating the current reaction clears it.
	counts = decode(t, s.do(t, http.MethodPost, "/api/comments/"+commentID+"/dislike", bobToken, nil))
	require.EqualValues(t, 0, counts["dislikes"])
	require.Equal(t, "", counts["reaction"])
	s.db.Model(&model.CommentReaction{}).Count(&rows)
	require.Zero(t, rows)
}

func TestDeleteCommentPermissions(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	s.signup(t, bobToken)
	s.signup(t, carolToken)

	blogID := s.createBlog(t, aliceToken, "Moderated space", "published")
	commentID := s.createComment(t, bobToken, blogID, "drive-by comment")

	// A third party cannot delete it.
	w := s.do(t, http.MethodDelete, "/api/comments/"+commentID, carolToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The blog author can moderate comments on their own blog.
	w = s.do(t, http.MethodDelete, "/api/comments/"+commentID, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows int64
	s.db.Model(&model.Comment{}).Count(&rows)
	require.Zero(t, rows)

	// The comment author can delete their own.
	commentID = s.createComment(t, bobToken, blogID, "second attempt")
	w = s.do(t, http.MethodDelete, "/api/comments/"+commentID, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
