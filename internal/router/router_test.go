package router_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/router"
	"github.com/anonto42/pigstar/backend/internal/testutil/fakemedia"
	"github.com/anonto42/pigstar/backend/internal/testutil/testdb"
	"github.com/anonto42/pigstar/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	e        *echo.Echo
	verifier *middleware.JWTVerifier
	media    *fakemedia.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	verifier, err := middleware.NewJWTVerifier("test-secret")
	require.NoError(t, err)
	e := echo.New()
	e.Validator = validators.NewValidator()
	store := fakemedia.New()
	require.NoError(t, router.SetupRoutes(e, router.Dependencies{
		DB:             testdb.Open(t),
		Verifier:       verifier,
		Media:          store,
		MaxUploadBytes: 1 << 10,
		Log:            zap.NewNop(),
	}))
	return &harness{e: e, verifier: verifier, media: store}
}

func (h *harness) token(t *testing.T, name string) string {
	t.Helper()
	token, err := h.verifier.Sign(models.ExternalIdentity{
		ExternalID:   "idp|" + name,
		FirstName:    strings.ToUpper(name[:1]) + name[1:],
		Email:        name + "@example.com",
		UsernameHint: name,
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func (h *harness) userID(t *testing.T, token string) string {
	t.Helper()
	rec := h.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["id"].(string)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPostLifecycle(t *testing.T) {
	h := newHarness(t)
	alice, bob := h.token(t, "alice"), h.token(t, "bob")
	aliceID := h.userID(t, alice)

	rec := h.do(t, http.MethodPost, "/api/posts", alice, map[string]any{"content": "hello pigstar"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode(t, rec)["data"].(map[string]any)
	postID := post["id"].(string)
	assert.Equal(t, "alice", post["author"].(map[string]any)["username"])

	rec = h.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode(t, rec)
	assert.Len(t, feed["posts"], 1)
	assert.Nil(t, feed["nextCursor"])

	rec = h.do(t, http.MethodPost, "/api/posts/"+postID+"/like", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	like := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, true, like["active"])
	assert.EqualValues(t, 1, like["count"])

	rec = h.do(t, http.MethodPost, "/api/posts/"+postID+"/comments", bob, map[string]any{"content": "welcome!"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode(t, rec)
	assert.EqualValues(t, 1, detail["counts"].(map[string]any)["likes"])
	assert.EqualValues(t, 1, detail["counts"].(map[string]any)["comments"])

	rec = h.do(t, http.MethodGet, "/api/profile/"+aliceID+"/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["posts"], 1)

	rec = h.do(t, http.MethodGet, "/api/notifications", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inbox := decode(t, rec)
	notifications := inbox["notifications"].([]any)
	require.Len(t, notifications, 2)
	assert.EqualValues(t, 2, inbox["unread"])
	ids := []string{
		notifications[0].(map[string]any)["id"].(string),
		notifications[1].(map[string]any)["id"].(string),
	}

	rec = h.do(t, http.MethodPost, "/api/notifications/read", alice, map[string]any{"ids": ids})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2, decode(t, rec)["data"].(map[string]any)["updated"])

	rec = h.do(t, http.MethodDelete, "/api/posts/"+postID, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	rec = h.do(t, http.MethodDelete, "/api/posts/"+postID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnonymousAccess(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/posts", "", map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/notifications", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["notifications"])

	rec = h.do(t, http.MethodGet, "/api/users/suggestions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["users"])

	rec = h.do(t, http.MethodGet, "/api/posts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFollowRoutes(t *testing.T) {
	h := newHarness(t)
	alice, bob := h.token(t, "alice"), h.token(t, "bob")
	aliceID, bobID := h.userID(t, alice), h.userID(t, bob)

	rec := h.do(t, http.MethodPost, "/api/users/"+aliceID+"/follow", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["data"].(map[string]any)["active"])

	rec = h.do(t, http.MethodGet, "/api/users/"+aliceID+"/follow", bob, nil)
	assert.Equal(t, true, decode(t, rec)["following"])

	rec = h.do(t, http.MethodGet, "/api/users/"+aliceID+"/follow", "", nil)
	assert.Equal(t, false, decode(t, rec)["following"])

	rec = h.do(t, http.MethodPost, "/api/users/"+bobID+"/follow", bob, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "cannot follow self")

	rec = h.do(t, http.MethodPost, "/api/users/nobody/follow", bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/profile/by-username/alice", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	counts := decode(t, rec)["counts"].(map[string]any)
	assert.EqualValues(t, 1, counts["followers"])
}

func TestProfileRoutes(t *testing.T) {
	h := newHarness(t)
	alice := h.token(t, "alice")
	h.userID(t, h.token(t, "bob"))

	rec := h.do(t, http.MethodPost, "/api/auth/sync", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode(t, rec)["data"].(map[string]any)["username"])

	rec = h.do(t, http.MethodPut, "/api/profile", alice, map[string]any{"website": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPut, "/api/profile", alice, map[string]any{
		"display_name": "Alice", "bio": "hello", "website": "https://alice.example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "hello", decode(t, rec)["data"].(map[string]any)["bio"])

	rec = h.do(t, http.MethodGet, "/api/users/suggestions", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode(t, rec)["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].(map[string]any)["username"])

	rec = h.do(t, http.MethodGet, "/api/profile/by-username/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePostRejectsTooManyImages(t *testing.T) {
	h := newHarness(t)
	images := make([]string, 10)
	for i := range images {
		images[i] = fakemedia.PublicBase + "/upload/posts/x.jpg"
	}
	rec := h.do(t, http.MethodPost, "/api/posts", h.token(t, "alice"), map[string]any{"images": images})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func (h *harness) upload(t *testing.T, token, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func TestUpload(t *testing.T) {
	h := newHarness(t)
	alice := h.token(t, "alice")
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

	rec := h.upload(t, alice, "file", "cat.png", png)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, fakemedia.PublicBase+"/upload/posts/cat.png", decode(t, rec)["url"])
	assert.True(t, h.media.Has("posts/cat.png"))

	rec = h.upload(t, alice, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decode(t, rec)["error"])

	rec = h.upload(t, alice, "file", "notes.txt", []byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.upload(t, alice, "file", "huge.png", append(png, bytes.Repeat([]byte{0}, 2048)...))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File too large", decode(t, rec)["error"])

	h.media.FailWrite = true
	rec = h.upload(t, alice, "file", "cat.png", png)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Upload failed", decode(t, rec)["error"])
}
