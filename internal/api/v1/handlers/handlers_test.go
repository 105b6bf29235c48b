package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mom-generator/internal/api/auth"
	"mom-generator/internal/api/middleware"
	"mom-generator/internal/api/v1/dto"
	"mom-generator/internal/api/v1/routes"
	"mom-generator/internal/api/v1/services"
	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/model"
)

type mockMeetingService struct {
	mock.Mock
}

func (m *mockMeetingService) Languages() dto.LanguagesResponse {
	return dto.LanguagesResponse{Languages: []string{"English", "Japanese"}, Default: "English"}
}

func (m *mockMeetingService) Create(ctx context.Context, in services.CreateInput) (*dto.CreateMinutesResponse, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(*dto.CreateMinutesResponse)
	return resp, args.Error(1)
}

func (m *mockMeetingService) Get(ctx context.Context, id int) (*model.Meeting, error) {
	args := m.Called(ctx, id)
	meeting, _ := args.Get(0).(*model.Meeting)
	return meeting, args.Error(1)
}

func (m *mockMeetingService) List(ctx context.Context, user string, q dto.ListMeetingsQuery) (*dto.ListMeetingsResponse, error) {
	args := m.Called(ctx, user, q)
	resp, _ := args.Get(0).(*dto.ListMeetingsResponse)
	return resp, args.Error(1)
}

func (m *mockMeetingService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMeetingService) Export(ctx context.Context, user string, w io.Writer) error {
	args := m.Called(ctx, user, w)
	if args.Error(0) == nil {
		w.Write([]byte("PK-xlsx"))
	}
	return args.Error(0)
}

type fakeProviders struct{}

func (fakeProviders) ListProviders(_ context.Context, checkHealth bool) ([]dto.ProviderResponse, error) {
	status := "unknown"
	if checkHealth {
		status = "healthy"
	}
	return []dto.ProviderResponse{{ID: "deepgram", Name: "Deepgram", HealthStatus: status, IsDefault: true}}, nil
}

type testEnv struct {
	router   *gin.Engine
	meetings *mockMeetingService
	token    string
}

func setupTestRouter(t *testing.T, maxUpload int64) *testEnv {
	gin.SetMode(gin.TestMode)
	authService := auth.NewService(auth.Config{Username: "admin", Password: "admin", Secret: "test"})
	meetings := &mockMeetingService{}
	t.Cleanup(func() { meetings.AssertExpectations(t) })

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler(zap.NewNop()))
	routes.RegisterRoutes(router.Group("/api/v1"), &routes.ServiceContainer{
		AuthService:     authService,
		MeetingService:  meetings,
		ProviderService: fakeProviders{},
		Tokens:          authService,
		CookieName:      "mom_session",
		MaxUploadBytes:  maxUpload,
	})
	return &testEnv{router: router, meetings: meetings, token: authService.Issue("admin").Value}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	if e.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func multipartRequest(t *testing.T, fileName string, data []byte, fields map[string]string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		fw.Write(data)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/minutes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestLogin(t *testing.T) {
	env := setupTestRouter(t, 0)
	env.token = ""

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"username":"admin","password":"admin"}`, http.StatusOK},
		{"wrong password", `{"username":"admin","password":"wrong"}`, http.StatusUnauthorized},
		{"missing field", `{"username":"admin"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := env.do(req)
			assert.Equal(t, tt.status, w.Code)

			b := body(t, w)
			switch tt.status {
			case http.StatusOK:
				assert.NotEmpty(t, b["token"])
				assert.Equal(t, "admin", b["user"])
			case http.StatusUnauthorized:
				assert.Equal(t, "Invalid username or password", b["message"])
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/languages", nil)
	req.Header.Set("Authorization", "Bearer forged.1.sig")
	w := env.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", body(t, w)["kind"])
}

func TestLanguages(t *testing.T) {
	env := setupTestRouter(t, 0)
	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/languages", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "English", body(t, w)["default"])
}

func TestCreateMinutes(t *testing.T) {
	env := setupTestRouter(t, 0)
	audio := []byte("RIFF....WAVEfmt ")

	env.meetings.On("Create", mock.Anything, mock.MatchedBy(func(in services.CreateInput) bool {
		return in.FileName == "standup.wav" && in.Language == "Japanese" && in.Mode == "upload" &&
			in.User == "admin" && bytes.Equal(in.Audio, audio)
	})).Return(&dto.CreateMinutesResponse{
		Meeting: dto.MeetingResponse{ID: 4, Minutes: "## MoM", Steps: []dto.StepResponse{{Name: "transcribe", Seconds: 1.5}}},
		Warnings: []string{"audio could not be archived"},
	}, nil)

	w := env.do(multipartRequest(t, "standup.wav", audio, map[string]string{"language": "Japanese", "mode": "upload"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	b := body(t, w)
	meeting := b["meeting"].(map[string]interface{})
	assert.Equal(t, float64(4), meeting["id"])
	assert.Equal(t, "## MoM", meeting["minutes"])
	assert.Len(t, b["warnings"], 1)
}

func TestCreateMinutes_Errors(t *testing.T) {
	tests := []struct {
		name      string
		maxUpload int64
		request   func(t *testing.T) *http.Request
		mockErr   error
		status    int
		kind      string
	}{
		{
			name:    "missing file",
			request: func(t *testing.T) *http.Request { return multipartRequest(t, "", nil, map[string]string{"language": "English"}) },
			status:  http.StatusBadRequest,
			kind:    "bad_request",
		},
		{
			name:    "bad mode",
			request: func(t *testing.T) *http.Request { return multipartRequest(t, "a.wav", []byte("x"), map[string]string{"mode": "stream"}) },
			status:  http.StatusUnprocessableEntity,
			kind:    "validation",
		},
		{
			name:      "too large",
			maxUpload: 10,
			request:   func(t *testing.T) *http.Request { return multipartRequest(t, "a.wav", bytes.Repeat([]byte("x"), 64), nil) },
			status:    http.StatusRequestEntityTooLarge,
			kind:      "too_large",
		},
		{
			name:    "unsupported format",
			request: func(t *testing.T) *http.Request { return multipartRequest(t, "notes.txt", []byte("hello"), nil) },
			mockErr: apperrors.Mark(apperrors.ErrUnsupportedFormat, ".txt"),
			status:  http.StatusUnprocessableEntity,
			kind:    "validation",
		},
		{
			name:    "empty transcript",
			request: func(t *testing.T) *http.Request { return multipartRequest(t, "silence.wav", []byte("RIFF"), nil) },
			mockErr: apperrors.ErrEmptyTranscript,
			status:  http.StatusUnprocessableEntity,
			kind:    "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t, tt.maxUpload)
			if tt.mockErr != nil {
				env.meetings.On("Create", mock.Anything, mock.Anything).Return(nil, tt.mockErr)
			}
			w := env.do(tt.request(t))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.kind, body(t, w)["kind"])
		})
	}
}

func TestListMeetings(t *testing.T) {
	env := setupTestRouter(t, 0)
	env.meetings.On("List", mock.Anything, "admin", dto.ListMeetingsQuery{Page: 2, Limit: 5}).
		Return(&dto.ListMeetingsResponse{Meetings: []dto.MeetingResponse{{ID: 9}}, Page: 2, Limit: 5, Count: 1, Total: 6}, nil)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/minutes?page=2&limit=5", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6", w.Header().Get("X-Total-Count"))

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/minutes?limit=1000", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndDownload(t *testing.T) {
	env := setupTestRouter(t, 0)
	meeting := &model.Meeting{
		ID: 3, User: "admin", CreatedAt: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
		Language: "Japanese", Transcript: "SPEAKER 0: hello", Translated: "田中: こんにちは", Minutes: "## 議事録",
		Steps: []model.Step{{Name: "transcribe", Duration: 1230 * time.Millisecond}},
	}
	env.meetings.On("Get", mock.Anything, 3).Return(meeting, nil)
	env.meetings.On("Get", mock.Anything, 99).Return(nil, apperrors.Mark(apperrors.ErrNotFound, "99"))

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/minutes/3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	b := body(t, w)
	assert.Equal(t, "田中: こんにちは", b["translated"])
	assert.Equal(t, 1.23, b["steps"].([]interface{})[0].(map[string]interface{})["seconds"])

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/minutes/3/download", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="minutes_of_meeting.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "## 議事録", w.Body.String())

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/minutes/3/transcript", nil))
	assert.Equal(t, `attachment; filename="transcript.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "田中: こんにちは", w.Body.String())

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/minutes/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/minutes/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownload_NoMinutes(t *testing.T) {
	env := setupTestRouter(t, 0)
	env.meetings.On("Get", mock.Anything, 5).Return(&model.Meeting{ID: 5, ErrorMessage: "transcript is empty"}, nil)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/minutes/5/download", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMeeting(t *testing.T) {
	env := setupTestRouter(t, 0)
	env.meetings.On("Delete", mock.Anything, 3).Return(nil)
	env.meetings.On("Delete", mock.Anything, 4).Return(apperrors.ErrNotFound)

	assert.Equal(t, http.StatusNoContent, env.do(httptest.NewRequest(http.MethodDelete, "/api/v1/minutes/3", nil)).Code)
	assert.Equal(t, http.StatusNotFound, env.do(httptest.NewRequest(http.MethodDelete, "/api/v1/minutes/4", nil)).Code)
}

func TestExport(t *testing.T) {
	env := setupTestRouter(t, 0)
	env.meetings.On("Export", mock.Anything, "admin", mock.Anything).Return(nil)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/minutes/export", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="meetings.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK-xlsx", w.Body.String())
}

func TestProviders(t *testing.T) {
	env := setupTestRouter(t, 0)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/providers?health=true", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	providers := body(t, w)["providers"].([]interface{})
	require.Len(t, providers, 1)
	assert.Equal(t, "healthy", providers[0].(map[string]interface{})["health_status"])
}
