package server

import (
	"net/http"
	"testing"

	"github.com/blogsphere/blogsphere/model"
	"github.com/stretchr/testify/require"
)

func TestFollowUnfollowRoundTrip(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	bobID := s.userID(t, bobToken)

	w := s.do(t, http.MethodPost, "/api/users/"+bobID+"/follow", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	profile := decode(t, s.do(t, http.MethodGet, "/api/users/"+bobID, aliceToken, nil))
	require.EqualValues(t, 1, profile["followerCount"])
	require.Equal(t, true, profile["followedByMe"])

	// Re-following is a no-op.
	w = s.do(t, http.MethodPost, "/api/users/"+bobID+"/follow", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile = decode(t, s.do(t, http.MethodGet, "/api/users/"+bobID, aliceToken, nil))
	require.EqualValues(t, 1, profile["followerCount"])

	w = s.do(t, http.MethodDelete, "/api/users/"+bobID+"/follow", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile = decode(t, s.do(t, http.MethodGet, "/api/users/"+bobID, aliceToken, nil))
	require.EqualValues(t, 0, profile["followerCount"])
	require.Equal(t, false, profile["followedByMe"])

	// The edge can be re-created after an unfollow.
	w = s.do(t, http.MethodPost, "/api/users/"+bobID+"/follow", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile = decode(t, s.do(t, http.MethodGet, "/api/users/"+bobID, aliceToken, nil))
	require.EqualValues(t, 1, profile["followerCount"])
}

func TestSelfFollowRejected(t *testing.T) {
	s := newTestServer(t)
	aliceID := s.userID(t, aliceToken)

	w := s.do(t, http.MethodPost, "/api/users/"+aliceID+"/follow", aliceToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowerListings(t *testing.T) {
	s := newTestServer(t)
	aliceID := s.userID(t, aliceToken)
	bobID := s.userID(t, bobToken)

	s.do(t, http.MethodPost, "/api/users/"+bobID+"/follow", aliceToken, nil)

	followers := decodeList(t, s.do(t, http.MethodGet, "/api/users/"+bobID+"/followers", bobToken, nil))
	require.Len(t, followers, 1)
	require.Equal(t, aliceID, followers[0]["id"])

	following := decodeList(t, s.do(t, http.MethodGet, "/api/users/"+aliceID+"/following", bobToken, nil))
	require.Len(t, following, 1)
	require.Equal(t, bobID, following[0]["id"])
}

func TestPrivateProfileVisibility(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	bobID := s.userID(t, bobToken)
	s.signup(t, carolToken)

	w := s.do(t, http.MethodPut, "/api/users/me/settings", bobToken,
		map[string]interface{}{"isPrivate": true})
	require.Equal(t, http.StatusOK, w.Code)

	// A stranger gets the explicit private-account signal.
	w = s.do(t, http.MethodGet, "/api/users/"+bobID, carolToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, true, decode(t, w)["private"])

	// A follower can see the profile.
	s.do(t, http.MethodPost, "/api/users/"+bobID+"/follow", carolToken, nil)
	w = s.do(t, http.MethodGet, "/api/users/"+bobID, carolToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The owner always can.
	w = s.do(t, http.MethodGet, "/api/users/"+bobID, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateProfileFields(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)

	w := s.do(t, http.MethodPut, "/api/users/me", aliceToken,
		map[string]interface{}{"bio": "gopher", "coverImageUrl": "http://cover"})
	require.Equal(t, http.StatusOK, w.Code)

	me := s.signup(t, aliceToken)
	require.Equal(t, "gopher", me["Bio"])
	require.Equal(t, "http://cover", me["CoverImageUrl"])
	// Provider-owned fields stay untouched.
	require.Equal(t, "Alice", me["Name"])
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)

	settings := decode(t, s.do(t, http.MethodGet, "/api/users/me/settings", aliceToken, nil))
	require.Equal(t, false, settings["IsPrivate"])
	require.Equal(t, true, settings["AllowLikes"])
	require.Equal(t, true, settings["AllowComments"])
	require.Equal(t, true, settings["ShowFollowerActivity"])

	w := s.do(t, http.MethodPut, "/api/users/me/settings", aliceToken,
		map[string]interface{}{"allowComments": false})
	require.Equal(t, http.StatusOK, w.Code)

	settings = decode(t, s.do(t, http.MethodGet, "/api/users/me/settings", aliceToken, nil))
	require.Equal(t, false, settings["AllowComments"])
	// Untouched toggles keep their values.
	require.Equal(t, true, settings["AllowLikes"])
}

func TestSuggestedUsersExcludesSelfAndFollowed(t *testing.T) {
	s := newTestServer(t)
	aliceID := s.userID(t, aliceToken)
	bobID := s.userID(t, bobToken)
	carolID := s.userID(t, carolToken)

	s.do(t, http.MethodPost, "/api/users/"+bobID+"/follow", aliceToken, nil)

	suggested := decodeList(t, s.do(t, http.MethodGet, "/api/users/suggested", aliceToken, nil))
	require.Len(t, suggested, 1)
	require.Equal(t, carolID, suggested[0]["id"])
	for _, profile := range suggested {
		require.NotEqual(t, aliceID, profile["id"])
		require.NotEqual(t, bobID, profile["id"])
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, aliceToken)
	bobID := s.userID(t, bobToken)
	s.signup(t, carolToken)

	// Bob publishes a blog that Carol interacts with.
	blog := decode(t, s.do(t, http.MethodPost, "/api/blogs", bobToken, map[string]interface{}{
		"title":   "Bob's last post",
		"content": "Some real content worth reading.",
		"status":  "published",
	}))
	blogID := blog["Id"].(string)
	s.do(t, http.MethodPost, "/api/blogs/"+blogID+"/like", carolToken, nil)
	s.do(t, http.MethodPost, "/api/blogs/"+blogID+"/comments", carolToken,
		map[string]interface{}{"text": "nice one"})
	s.do(t, http.MethodPost, "/api/users/"+bobID+"/follow", carolToken, nil)

	w := s.do(t, http.MethodDelete, "/api/users/me", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/blogs/"+blogID, carolToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// No residue rows survive.
	for name, m := range map[string]interface{}{
		"blogs":        &model.Blog{},
		"comments":     &model.Comment{},
		"likes":        &model.BlogLike{},
		"follows":      &model.UserFollow{},
		"notification": &model.Notification{},
	} {
		var count int64
		s.db.Model(m).Count(&count)
		require.Zero(t, count, name)
	}

	var users int64
	s.db.Model(&model.User{}).Count(&users)
	require.EqualValues(t, 2, users)
}
