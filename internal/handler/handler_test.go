package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/memoapp/memo-server/internal/domain"
	"github.com/memoapp/memo-server/internal/middleware"
	"github.com/memoapp/memo-server/internal/migration"
	"github.com/memoapp/memo-server/internal/repository"
	"github.com/memoapp/memo-server/internal/service"
	pkgjwt "github.com/memoapp/memo-server/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	router    *gin.Engine
	uploadDir string
	token     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migration.Run(db))

	uploadDir := t.TempDir()
	files := service.NewLocalAttachmentStore(uploadDir, "/uploads")

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	memoRepo := repository.NewMemoRepository(db)

	jwtManager := pkgjwt.NewManager("test-secret", time.Hour)
	authService := service.NewAuthService(userRepo, jwtManager)
	memoService := service.NewMemoService(memoRepo, groupRepo, files)
	groupService := service.NewGroupService(groupRepo, memoService)

	authHandler := NewAuthHandler(authService)
	memoHandler := NewMemoHandler(memoService)
	groupHandler := NewGroupHandler(groupService)

	router := gin.New()
	api := router.Group("/api")

	users := api.Group("/users")
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)

	memos := api.Group("/memos")
	memos.Use(middleware.JWTAuth(jwtManager))
	memos.GET("/:user_idx", memoHandler.List)
	memos.POST("", memoHandler.Create)
	memos.POST("/upload", memoHandler.Upload)
	memos.PUT("/:id", memoHandler.Update)
	memos.PATCH("/:id/pin", memoHandler.SetPinned)
	memos.DELETE("/:id", memoHandler.Delete)
	memos.DELETE("/group/:group_idx", memoHandler.DeleteByGroup)

	groups := api.Group("/groups")
	groups.Use(middleware.JWTAuth(jwtManager))
	groups.GET("/:user_idx", groupHandler.List)
	groups.POST("", groupHandler.Create)
	groups.PUT("/:id", groupHandler.Rename)
	groups.DELETE("/:id", groupHandler.Delete)

	ts := &testServer{router: router, uploadDir: uploadDir}

	// Register and log in a default user
	ts.doJSON(t, "POST", "/api/users/signup",
		`{"user_id":"alice","user_pw":"pw","nickname":"Alice"}`, http.StatusCreated)
	resp := ts.doJSON(t, "POST", "/api/users/login",
		`{"user_id":"alice","user_pw":"pw"}`, http.StatusOK)

	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp, &login))
	require.NotEmpty(t, login.Data.Token)
	ts.token = login.Data.Token

	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string, wantStatus int) []byte {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, wantStatus, w.Code, "unexpected status for %s %s: %s", method, path, w.Body.String())
	return w.Body.Bytes()
}

func (ts *testServer) doJSON(t *testing.T, method, path, body string, wantStatus int) []byte {
	t.Helper()
	return ts.do(t, method, path, bytes.NewBufferString(body), "application/json", wantStatus)
}

func (ts *testServer) createGroup(t *testing.T, name string) uint64 {
	t.Helper()
	resp := ts.doJSON(t, "POST", "/api/groups",
		fmt.Sprintf(`{"group_name":%q,"user_idx_t":1}`, name), http.StatusCreated)
	var out struct {
		Data domain.InsertResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp, &out))
	return out.Data.InsertedID
}

func (ts *testServer) createMemo(t *testing.T, title string, groupIdx uint64) uint64 {
	t.Helper()
	resp := ts.doJSON(t, "POST", "/api/memos",
		fmt.Sprintf(`{"title":%q,"group_idx_t":%d,"user_idx_t":1}`, title, groupIdx), http.StatusCreated)
	var out struct {
		Data domain.InsertResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp, &out))
	return out.Data.InsertedID
}

func (ts *testServer) listMemos(t *testing.T) []domain.MemoResponse {
	t.Helper()
	resp := ts.do(t, "GET", "/api/memos/1", nil, "", http.StatusOK)
	var out struct {
		Data []domain.MemoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp, &out))
	return out.Data
}

func (ts *testServer) updateMemoMultipart(t *testing.T, memoIdx uint64, title, contents string, image []byte, imageName string, removeImage bool) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("contents", contents))
	if removeImage {
		require.NoError(t, w.WriteField("removeImage", "true"))
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	ts.do(t, "PUT", fmt.Sprintf("/api/memos/%d", memoIdx), &buf, w.FormDataContentType(), http.StatusOK)
}

func (ts *testServer) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(ts.uploadDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestMemoRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""
	ts.do(t, "GET", "/api/memos/1", nil, "", http.StatusUnauthorized)
}

func TestPinScenario(t *testing.T) {
	ts := newTestServer(t)

	groupIdx := ts.createGroup(t, "Main")
	shopping := ts.createMemo(t, "Shopping", groupIdx)
	todo := ts.createMemo(t, "Todo", groupIdx)
	ts.createMemo(t, "Unpinned", groupIdx)

	ts.doJSON(t, "PATCH", fmt.Sprintf("/api/memos/%d/pin", shopping), `{"is_pinned":true}`, http.StatusOK)
	ts.doJSON(t, "PATCH", fmt.Sprintf("/api/memos/%d/pin", todo), `{"is_pinned":true}`, http.StatusOK)

	memos := ts.listMemos(t)
	require.Len(t, memos, 3)
	assert.Equal(t, "Shopping", memos[0].Title)
	assert.Equal(t, "Todo", memos[1].Title)
	assert.Equal(t, "Unpinned", memos[2].Title)

	require.NotNil(t, memos[0].PinOrder)
	require.NotNil(t, memos[1].PinOrder)
	assert.Equal(t, uint64(1), *memos[0].PinOrder)
	assert.Equal(t, uint64(2), *memos[1].PinOrder)

	// Unpinned memos carry no ordinal
	assert.False(t, memos[2].IsPinned)
	assert.Nil(t, memos[2].PinOrder)

	// Unpinning clears the ordinal
	ts.doJSON(t, "PATCH", fmt.Sprintf("/api/memos/%d/pin", shopping), `{"is_pinned":false}`, http.StatusOK)
	memos = ts.listMemos(t)
	assert.Equal(t, "Todo", memos[0].Title)
	for _, m := range memos {
		if m.Title == "Shopping" {
			assert.False(t, m.IsPinned)
			assert.Nil(t, m.PinOrder)
		}
	}
}

func TestAttachmentReplaceScenario(t *testing.T) {
	ts := newTestServer(t)

	groupIdx := ts.createGroup(t, "Main")
	memoIdx := ts.createMemo(t, "WithImage", groupIdx)

	ts.updateMemoMultipart(t, memoIdx, "WithImage", "", []byte("first-image"), "a.png", false)
	require.Len(t, ts.storedFiles(t), 1)
	firstRef := *ts.listMemos(t)[0].ImageURL

	ts.updateMemoMultipart(t, memoIdx, "WithImage", "", []byte("second-image"), "b.png", false)

	// Exactly one file remains and the record points at the new one
	files := ts.storedFiles(t)
	require.Len(t, files, 1)
	newRef := *ts.listMemos(t)[0].ImageURL
	assert.NotEqual(t, firstRef, newRef)
	assert.Contains(t, newRef, files[0])

	// Removing drops the file and the reference
	ts.updateMemoMultipart(t, memoIdx, "WithImage", "", nil, "", true)
	assert.Empty(t, ts.storedFiles(t))
	assert.Nil(t, ts.listMemos(t)[0].ImageURL)
}

func TestDeleteMemoTwice(t *testing.T) {
	ts := newTestServer(t)

	groupIdx := ts.createGroup(t, "Main")
	memoIdx := ts.createMemo(t, "Doomed", groupIdx)

	ts.do(t, "DELETE", fmt.Sprintf("/api/memos/%d", memoIdx), nil, "", http.StatusOK)
	ts.do(t, "DELETE", fmt.Sprintf("/api/memos/%d", memoIdx), nil, "", http.StatusNotFound)
}

func TestGroupDeleteCascade(t *testing.T) {
	ts := newTestServer(t)

	keep := ts.createGroup(t, "Keep")
	doomed := ts.createGroup(t, "Doomed")

	kept := ts.createMemo(t, "kept", keep)
	m1 := ts.createMemo(t, "m1", doomed)
	ts.createMemo(t, "m2", doomed)
	ts.updateMemoMultipart(t, m1, "m1", "", []byte("image"), "pic.png", false)
	require.Len(t, ts.storedFiles(t), 1)

	ts.do(t, "DELETE", fmt.Sprintf("/api/groups/%d", doomed), nil, "", http.StatusOK)

	// Rows and files of the doomed group are gone; the other group survives
	memos := ts.listMemos(t)
	require.Len(t, memos, 1)
	assert.Equal(t, kept, memos[0].Idx)
	assert.Empty(t, ts.storedFiles(t))

	ts.do(t, "DELETE", fmt.Sprintf("/api/groups/%d", doomed), nil, "", http.StatusNotFound)
}

func TestClearGroupReturnsCount(t *testing.T) {
	ts := newTestServer(t)

	groupIdx := ts.createGroup(t, "Main")
	ts.createMemo(t, "m1", groupIdx)
	ts.createMemo(t, "m2", groupIdx)

	resp := ts.do(t, "DELETE", fmt.Sprintf("/api/memos/group/%d", groupIdx), nil, "", http.StatusOK)
	var out struct {
		Data domain.DeleteByGroupResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp, &out))
	assert.Equal(t, int64(2), out.Data.Count)

	// The group itself survives a clear
	ts.doJSON(t, "PUT", fmt.Sprintf("/api/groups/%d", groupIdx), `{"group_name":"Still here"}`, http.StatusOK)
}

func TestCreateMemoValidation(t *testing.T) {
	ts := newTestServer(t)
	groupIdx := ts.createGroup(t, "Main")

	ts.doJSON(t, "POST", "/api/memos",
		fmt.Sprintf(`{"group_idx_t":%d,"user_idx_t":1}`, groupIdx), http.StatusBadRequest)
	ts.doJSON(t, "POST", "/api/memos",
		`{"title":"no group","user_idx_t":1}`, http.StatusBadRequest)
	ts.doJSON(t, "POST", "/api/memos",
		`{"title":"ghost group","group_idx_t":999,"user_idx_t":1}`, http.StatusNotFound)
}

func TestBareUploadReturnsURL(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", "editor.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("editor-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp := ts.do(t, "POST", "/api/memos/upload", &buf, w.FormDataContentType(), http.StatusOK)
	var out struct {
		Data domain.UploadResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp, &out))
	assert.NotEmpty(t, out.Data.URL)
	assert.Contains(t, out.Data.URL, "/uploads/")
	require.Len(t, ts.storedFiles(t), 1)
}
