package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"mdrive/internal/drive"
	"mdrive/internal/models"

	"github.com/stretchr/testify/require"
)

type testUser struct {
	ID          int64
	Username    string
	Password    string
	AccessToken string
}

// registerUser goes through the public endpoints so the drive is onboarded
// the same way it is for real users.
func registerUser(t *testing.T, username string) *testUser {
	t.Helper()
	password := "secret-password"

	rr := doJSON(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Username: username, Password: password})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var user models.User
	decode(t, rr, &user)

	rr = doJSON(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var tokens TokenResponse
	decode(t, rr, &tokens)

	return &testUser{ID: user.ID, Username: username, Password: password, AccessToken: tokens.AccessToken}
}

func doRequest(t *testing.T, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	testHandler.ServeHTTP(rr, req)
	return rr
}

func doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return doRequest(t, req, token)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func rootView(t *testing.T, user *testUser) drive.FolderView {
	t.Helper()
	rr := doJSON(t, http.MethodGet, "/api/v1/drive", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var view drive.FolderView
	decode(t, rr, &view)
	return view
}

func createFolder(t *testing.T, user *testUser, parentID int64, name string) models.Folder {
	t.Helper()
	rr := doJSON(t, http.MethodPost, "/api/v1/folders", user.AccessToken, CreateFolderRequest{Name: name, ParentID: parentID})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var folder models.Folder
	decode(t, rr, &folder)
	return folder
}

func uploadFile(t *testing.T, user *testUser, folderID int64, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("folder_id", strconv.FormatInt(folderID, 10)))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return doRequest(t, req, user.AccessToken)
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
