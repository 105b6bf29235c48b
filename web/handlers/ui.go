// Package handlers renders the browser pages.
package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"

	apierrors "mom-generator/internal/api/errors"
	"mom-generator/internal/api/middleware"
	"mom-generator/internal/api/v1/dto"
	v1handlers "mom-generator/internal/api/v1/handlers"
	"mom-generator/internal/api/v1/services"
	"mom-generator/internal/app/pipeline"
)

const (
	LoginPath        = "/login"
	InvalidLoginText = "Invalid username or password"

	defaultRecent = 5
)

var timeNow = time.Now

var stepLabels = map[string]string{
	pipeline.StepTranscribe: "transcribe",
	pipeline.StepTranslate:  "translate",
	pipeline.StepGenerate:   "generate MoM",
}

// Config holds the UI settings
type Config struct {
	CookieName     string
	SecureCookie   bool
	MaxUploadBytes int64
	RecentLimit    int
}

// UIHandler serves the login, upload and result pages
type UIHandler struct {
	templates *template.Template
	auth      services.AuthService
	tokens    middleware.TokenValidator
	meetings  services.MeetingService
	config    Config
	logger    *zap.Logger
}

type page struct {
	Title string
	User  string
	Error string
}

type loginPage struct {
	page
	Next     string
	Username string
}

type indexPage struct {
	page
	Languages []string
	Default   string
	Recent    []dto.MeetingResponse
}

type stepView struct {
	Label   string
	Seconds float64
}

type resultPage struct {
	page
	Meeting    dto.MeetingResponse
	Transcript string
	Steps      []stepView
	Warnings   []string
}

// NewUIHandler creates the page handler
func NewUIHandler(templates *template.Template, auth services.AuthService, tokens middleware.TokenValidator,
	meetings services.MeetingService, config Config, logger *zap.Logger) *UIHandler {
	if config.RecentLimit == 0 {
		config.RecentLimit = defaultRecent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UIHandler{
		templates: templates,
		auth:      auth,
		tokens:    tokens,
		meetings:  meetings,
		config:    config,
		logger:    logger,
	}
}

// LoginPage handles GET /login
func (h *UIHandler) LoginPage(c *gin.Context) {
	if _, err := h.tokens.Validate(middleware.TokenFromRequest(c, h.config.CookieName)); err == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.render(c, http.StatusOK, "login.html", loginPage{page: page{Title: "Login"}, Next: safeNext(c.Query("next"))})
}

// Login handles POST /login
func (h *UIHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := safeNext(c.PostForm("next"))

	token, err := h.auth.Login(username, c.PostForm("password"))
	if err != nil {
		h.logger.Warn("login rejected", zap.String("username", username), zap.String("client_ip", c.ClientIP()))
		h.render(c, http.StatusUnauthorized, "login.html", loginPage{
			page:     page{Title: "Login", Error: InvalidLoginText},
			Next:     next,
			Username: username,
		})
		return
	}

	maxAge := int(token.ExpiresAt.Sub(timeNow()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.CookieName, token.Value, maxAge, "/", "", h.config.SecureCookie, true)
	c.Redirect(http.StatusSeeOther, next)
}

// Logout handles POST /logout
func (h *UIHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.CookieName, "", -1, "/", "", h.config.SecureCookie, true)
	c.Redirect(http.StatusSeeOther, LoginPath)
}

// Index handles GET /
func (h *UIHandler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, "")
}

func (h *UIHandler) renderIndex(c *gin.Context, status int, message string) {
	user := middleware.CurrentUser(c)
	languages := h.meetings.Languages()

	var recent []dto.MeetingResponse
	list, err := h.meetings.List(c.Request.Context(), user, dto.ListMeetingsQuery{Page: 1, Limit: h.config.RecentLimit})
	if err != nil {
		h.logger.Warn("recent meetings unavailable", zap.Error(err))
	} else {
		recent = list.Meetings
	}

	h.render(c, status, "index.html", indexPage{
		page:      page{Title: "Generate MoM", User: user, Error: message},
		Languages: languages.Languages,
		Default:   languages.Default,
		Recent:    recent,
	})
}

// Create handles POST /minutes from the upload form or the recorder
func (h *UIHandler) Create(c *gin.Context) {
	in, err := v1handlers.ReadUpload(c, h.config.MaxUploadBytes)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	in.User = middleware.CurrentUser(c)

	resp, err := h.meetings.Create(c.Request.Context(), *in)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	h.renderResult(c, http.StatusOK, resp.Meeting, resp.Warnings)
}

// Show handles GET /minutes/:id
func (h *UIHandler) Show(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.renderIndex(c, http.StatusBadRequest, "Invalid meeting ID")
		return
	}
	meeting, err := h.meetings.Get(c.Request.Context(), id)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	h.renderResult(c, http.StatusOK, dto.ToMeetingResponse(meeting), nil)
}

// Download handles GET /minutes/:id/download
func (h *UIHandler) Download(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Invalid meeting ID")
		return
	}
	meeting, err := h.meetings.Get(c.Request.Context(), id)
	if err != nil || meeting.Minutes == "" {
		c.String(http.StatusNotFound, "Minutes not found")
		return
	}
	v1handlers.Attachment(c, v1handlers.MinutesFileName, "text/plain; charset=utf-8", []byte(meeting.Minutes))
}

func (h *UIHandler) renderResult(c *gin.Context, status int, meeting dto.MeetingResponse, warnings []string) {
	steps := make([]stepView, 0, len(meeting.Steps))
	for _, s := range meeting.Steps {
		label, ok := stepLabels[s.Name]
		if !ok {
			label = s.Name
		}
		steps = append(steps, stepView{Label: label, Seconds: s.Seconds})
	}

	text := meeting.Translated
	if text == "" {
		text = meeting.Transcript
	}

	h.render(c, status, "result.html", resultPage{
		page:       page{Title: "Minutes of Meeting", User: middleware.CurrentUser(c)},
		Meeting:    meeting,
		Transcript: text,
		Steps:      steps,
		Warnings:   warnings,
	})
}

// renderFailure shows the form again with the user-facing message of err
func (h *UIHandler) renderFailure(c *gin.Context, err error) {
	apiErr := apierrors.FromDomain(err)
	if apiErr.HTTPStatus() >= http.StatusInternalServerError {
		h.logger.Error("minutes request failed", zap.Error(err))
	}
	message := apiErr.Message
	if len(apiErr.Details) == 1 {
		for field, detail := range apiErr.Details {
			message = fmt.Sprintf("%s: %s %s", message, field, detail)
		}
	}
	h.renderIndex(c, apiErr.HTTPStatus(), message)
}

func (h *UIHandler) render(c *gin.Context, status int, name string, data interface{}) {
	c.Render(status, render.HTML{Template: h.templates, Name: name, Data: data})
}

// safeNext keeps redirects on this site
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
