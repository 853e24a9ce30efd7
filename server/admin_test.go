package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/blogsphere/blogsphere/model"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("smtp unreachable")

// alice signs up first in these tests and is therefore the admin.

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	s.signup(t, bobToken)

	w := s.do(t, http.MethodGet, "/api/admin/users", bobToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/users", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeList(t, w), 2)
}

func TestBlockAndUnblockUser(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	bobID := s.userID(t, bobToken)

	w := s.do(t, http.MethodPut, "/api/admin/users/"+bobID+"/status", aliceToken,
		map[string]interface{}{"status": "blocked"})
	require.Equal(t, http.StatusOK, w.Code)

	// A blocked account fails authentication outright.
	w = s.do(t, http.MethodGet, "/api/users/me", bobToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "account blocked", decode(t, w)["error"])

	w = s.do(t, http.MethodPut, "/api/admin/users/"+bobID+"/status", aliceToken,
		map[string]interface{}{"status": "active"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/users/me", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminCannotBlockSelf(t *testing.T) {
	s := newTestServer(t)
	aliceID := s.userID(t, aliceToken)

	w := s.do(t, http.MethodPut, "/api/admin/users/"+aliceID+"/status", aliceToken,
		map[string]interface{}{"status": "blocked"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoleChangesNeedSuperadmin(t *testing.T) {
	s := newTestServer(t)
	aliceID := s.userID(t, aliceToken)
	bobID := s.userID(t, bobToken)

	// A plain admin cannot mint another admin.
	w := s.do(t, http.MethodPut, "/api/admin/users/"+bobID+"/role", aliceToken,
		map[string]interface{}{"role": "admin"})
	require.Equal(t, http.StatusForbidden, w.Code)

	s.db.Model(&model.User{}).Where("id = ?", aliceID).
		Update("role", model.UserRoleSuperadmin)

	w = s.do(t, http.MethodPut, "/api/admin/users/"+bobID+"/role", aliceToken,
		map[string]interface{}{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)

	bob := s.signup(t, bobToken)
	require.Equal(t, "admin", bob["Role"])
}

func TestMaintenanceMode(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	s.signup(t, bobToken)

	w := s.do(t, http.MethodPut, "/api/admin/maintenance", aliceToken,
		map[string]interface{}{"maintenanceMode": true})
	require.Equal(t, http.StatusOK, w.Code)

	// Non-admin traffic gets the distinct 503 signal.
	w = s.do(t, http.MethodGet, "/api/blogs", bobToken, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, true, decode(t, w)["maintenanceMode"])

	// Admins pass so they can turn it back off.
	w = s.do(t, http.MethodGet, "/api/blogs", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	state := decode(t, s.do(t, http.MethodGet, "/api/admin/maintenance", aliceToken, nil))
	require.Equal(t, true, state["maintenanceMode"])

	w = s.do(t, http.MethodPut, "/api/admin/maintenance", aliceToken,
		map[string]interface{}{"maintenanceMode": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/blogs", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBroadcastAudiences(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	s.signup(t, bobToken)
	s.signup(t, carolToken)

	w := s.do(t, http.MethodPost, "/api/admin/broadcast", aliceToken, map[string]interface{}{
		"subject":  "Scheduled downtime",
		"body":     "We are migrating the database on Friday night.",
		"audience": "users",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 2, decode(t, w)["sent"])

	require.Len(t, s.mailer.Broadcasts, 1)
	sent := s.mailer.Broadcasts[0]
	require.Equal(t, "Scheduled downtime", sent.Subject)
	require.ElementsMatch(t, []string{"bob@example.com", "carol@example.com"}, sent.Recipients)

	w = s.do(t, http.MethodPost, "/api/admin/broadcast", aliceToken, map[string]interface{}{
		"subject":  "Admin only",
		"body":     "Review queue is backed up.",
		"audience": "admins",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"alice@example.com"}, s.mailer.Broadcasts[1].Recipients)

	// A mailer failure surfaces as a bad gateway, and is not retried.
	s.mailer.Err = errDownstream
	w = s.do(t, http.MethodPost, "/api/admin/broadcast", aliceToken, map[string]interface{}{
		"subject": "Will not send",
		"body":    "SMTP is down.",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Len(t, s.mailer.Broadcasts, 2)

	w = s.do(t, http.MethodPost, "/api/admin/broadcast", aliceToken, map[string]interface{}{
		"subject":  "Bad audience",
		"body":     "x",
		"audience": "nobody",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategorySuggestionFlow(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	s.signup(t, bobToken)

	w := s.do(t, http.MethodPost, "/api/categories/suggest", bobToken,
		map[string]interface{}{"name": "Databases"})
	require.Equal(t, http.StatusOK, w.Code)
	suggestionID := decode(t, w)["Id"].(string)

	// Duplicate suggestions are rejected, case-insensitively.
	w = s.do(t, http.MethodPost, "/api/categories/suggest", bobToken,
		map[string]interface{}{"name": "databases"})
	require.Equal(t, http.StatusConflict, w.Code)

	pending := decodeList(t, s.do(t, http.MethodGet, "/api/admin/categories/suggestions", aliceToken, nil))
	require.Len(t, pending, 1)

	w = s.do(t, http.MethodPut, "/api/admin/categories/suggestions/"+suggestionID+"/approve", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	categories := decodeList(t, s.do(t, http.MethodGet, "/api/categories", bobToken, nil))
	require.Len(t, categories, 1)
	require.Equal(t, "Databases", categories[0]["Name"])

	// Approval completed the flow; the queue is empty and re-approving is a
	// no-op.
	pending = decodeList(t, s.do(t, http.MethodGet, "/api/admin/categories/suggestions", aliceToken, nil))
	require.Empty(t, pending)
	w = s.do(t, http.MethodPut, "/api/admin/categories/suggestions/"+suggestionID+"/approve", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categoryRows int64
	s.db.Model(&model.Category{}).Count(&categoryRows)
	require.EqualValues(t, 1, categoryRows)

	// A name already curated cannot be suggested again.
	w = s.do(t, http.MethodPost, "/api/categories/suggest", bobToken,
		map[string]interface{}{"name": "DATABASES"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminStatsAndUploads(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	s.signup(t, bobToken)

	s.createBlog(t, bobToken, "Published piece", "published")
	s.createBlog(t, bobToken, "Draft piece", "draft")

	stats := decode(t, s.do(t, http.MethodGet, "/api/admin/stats", aliceToken, nil))
	users := stats["users"].(map[string]interface{})
	require.EqualValues(t, 2, users["total"])
	require.EqualValues(t, 1, users["admins"])
	blogs := stats["blogs"].(map[string]interface{})
	require.EqualValues(t, 2, blogs["total"])
	require.EqualValues(t, 1, blogs["published"])
	require.EqualValues(t, 1, blogs["drafts"])

	// The uploads table shows drafts too.
	uploads := decodeList(t, s.do(t, http.MethodGet, "/api/admin/uploads", aliceToken, nil))
	require.Len(t, uploads, 2)
}

func TestAdminDeleteUser(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	bobID := s.userID(t, bobToken)

	s.createBlog(t, bobToken, "About to vanish", "published")

	w := s.do(t, http.MethodDelete, "/api/admin/users/"+bobID, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users, blogs int64
	s.db.Model(&model.User{}).Count(&users)
	require.EqualValues(t, 1, users)
	s.db.Model(&model.Blog{}).Count(&blogs)
	require.Zero(t, blogs)
}
