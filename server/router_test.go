package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/blogsphere/blogsphere/filestore"
	"github.com/blogsphere/blogsphere/mailer"
	"github.com/blogsphere/blogsphere/server/middlewares"
	"github.com/blogsphere/blogsphere/utils"
	"github.com/blogsphere/blogsphere/utils/dotenv"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// Fake tokens of the form uid|email|name. The first token to hit the API
// creates the first user, who is granted admin.
const (
	aliceToken = "alice-uid|alice@example.com|Alice"
	bobToken   = "bob-uid|bob@example.com|Bob"
	carolToken = "carol-uid|carol@example.com|Carol"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	mailer *mailer.FakeMailer
	images *filestore.FakeStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middlewares.SetVerifier(middlewares.FakeVerifier{})

	db := utils.NewTestDB(t)
	m := &mailer.FakeMailer{}
	images := filestore.NewFakeStore()
	return &testServer{
		router: NewRouter(db, m, images),
		db:     db,
		mailer: m,
		images: images,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// signup runs one authenticated request as token and returns the synced
// user record.
func (s *testServer) signup(t *testing.T, token string) map[string]interface{} {
	t.Helper()
	w := s.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return decode(t, w)
}

func (s *testServer) userID(t *testing.T, token string) string {
	t.Helper()
	return s.signup(t, token)["Id"].(string)
}

func TestHealthzNeedsNoAuth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMissingTokenRejected(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/blogs", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMalformedTokenRejected(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/blogs", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid token", decode(t, w)["error"])
}

func TestFirstUserBecomesAdmin(t *testing.T) {
	s := newTestServer(t)

	alice := s.signup(t, aliceToken)
	require.Equal(t, "admin", alice["Role"])

	bob := s.signup(t, bobToken)
	require.Equal(t, "user", bob["Role"])
}
