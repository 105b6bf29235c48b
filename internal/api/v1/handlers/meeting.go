package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mom-generator/internal/api/errors"
	"mom-generator/internal/api/middleware"
	"mom-generator/internal/api/v1/dto"
	"mom-generator/internal/api/v1/services"
	apperrors "mom-generator/internal/app/errors"
)

// Download file names
const (
	MinutesFileName    = "minutes_of_meeting.txt"
	TranscriptFileName = "transcript.txt"
	ExportFileName     = "meetings.xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	textContentType = "text/plain; charset=utf-8"

	// room for the other multipart fields
	formOverhead    = 1 << 20
	multipartMemory = 32 << 20
)

// MeetingHandler handles the minutes endpoints
type MeetingHandler struct {
	service        services.MeetingService
	maxUploadBytes int64
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(service services.MeetingService, maxUploadBytes int64) *MeetingHandler {
	return &MeetingHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Languages handles GET /api/v1/languages
// @Summary List minutes languages
// @Description Returns the languages the minutes can be written in and the default one
// @Tags minutes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LanguagesResponse "Selectable languages"
// @Failure 401 {object} errors.APIError "Not logged in"
// @Router /languages [get]
func (h *MeetingHandler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Languages())
}

// Create handles POST /api/v1/minutes
// Multipart fields: file (required), language, speech_language, mode (upload|record).
// @Summary Generate minutes of meeting
// @Description Transcribes the recording with speaker diarization, translates it when the language is not English and writes the minutes
// @Tags minutes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Meeting recording (wav or mp3)"
// @Param language formData string false "Minutes language" default(English)
// @Param speech_language formData string false "Spoken language code passed to Deepgram" example(en)
// @Param mode formData string false "Input mode" Enums(upload, record)
// @Success 201 {object} dto.CreateMinutesResponse "Stored meeting with its minutes"
// @Failure 400 {object} errors.APIError "Missing file or unsupported audio"
// @Failure 422 {object} errors.APIError "Invalid form fields"
// @Failure 401 {object} errors.APIError "Not logged in"
// @Failure 413 {object} errors.APIError "Recording too large"
// @Failure 502 {object} errors.APIError "Transcription or LLM provider failed"
// @Router /minutes [post]
func (h *MeetingHandler) Create(c *gin.Context) {
	in, err := ReadUpload(c, h.maxUploadBytes)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	in.User = middleware.CurrentUser(c)

	resp, err := h.service.Create(c.Request.Context(), *in)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ReadUpload parses the multipart minutes form. The web UI shares it.
func ReadUpload(c *gin.Context, maxUploadBytes int64) (*services.CreateInput, error) {
	if maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+formOverhead)
	}

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !stderrors.Is(err, http.ErrNotMultipart) {
		if tooLarge(err) {
			return nil, apperrors.Mark(apperrors.ErrFileTooLarge, fmt.Sprintf("limit is %d bytes", maxUploadBytes))
		}
		return nil, errors.NewBadRequestError("invalid multipart form")
	}

	var req dto.CreateMinutesRequest
	if err := middleware.ValidateForm(c, &req); err != nil {
		return nil, err
	}

	header, err := c.FormFile("file")
	if err != nil {
		return nil, errors.NewBadRequestError("file is required")
	}
	if maxUploadBytes > 0 && header.Size > maxUploadBytes {
		return nil, apperrors.Mark(apperrors.ErrFileTooLarge, fmt.Sprintf("%d bytes exceeds the %d byte limit", header.Size, maxUploadBytes))
	}

	f, err := header.Open()
	if err != nil {
		return nil, errors.NewBadRequestError("uploaded file cannot be read")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.NewBadRequestError("uploaded file cannot be read")
	}

	return &services.CreateInput{
		Audio:          data,
		FileName:       header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		Mode:           req.Mode,
		Language:       req.Language,
		SpeechLanguage: req.SpeechLanguage,
	}, nil
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr)
}

// List handles GET /api/v1/minutes
// @Summary List meetings
// @Description Pages through the caller's meetings, newest first. X-Total-Count carries the total.
// @Tags minutes
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" minimum(1)
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Success 200 {object} dto.ListMeetingsResponse "One page of meetings"
// @Header 200 {integer} X-Total-Count "Meetings the user has"
// @Failure 400 {object} errors.APIError "Malformed query"
// @Failure 422 {object} errors.APIError "Page or limit out of range"
// @Failure 401 {object} errors.APIError "Not logged in"
// @Router /minutes [get]
func (h *MeetingHandler) List(c *gin.Context) {
	var query dto.ListMeetingsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), middleware.CurrentUser(c), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(resp.Total))
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/v1/minutes/:id
// @Summary Get a meeting
// @Tags minutes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse "Meeting"
// @Failure 400 {object} errors.APIError "Invalid meeting ID"
// @Failure 404 {object} errors.APIError "Meeting not found"
// @Router /minutes/{id} [get]
func (h *MeetingHandler) Get(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}
	meeting, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMeetingResponse(meeting))
}

// Download handles GET /api/v1/minutes/:id/download
// @Summary Download the minutes
// @Tags minutes
// @Produce plain
// @Security BearerAuth
// @Param id path int true "Meeting ID"
// @Success 200 {file} file "minutes_of_meeting.txt"
// @Failure 404 {object} errors.APIError "Meeting or minutes not found"
// @Router /minutes/{id}/download [get]
func (h *MeetingHandler) Download(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}
	meeting, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if meeting.Minutes == "" {
		middleware.HandleError(c, errors.NewNotFoundError("minutes"))
		return
	}
	Attachment(c, MinutesFileName, textContentType, []byte(meeting.Minutes))
}

// Transcript handles GET /api/v1/minutes/:id/transcript
// @Summary Download the speaker transcript
// @Tags minutes
// @Produce plain
// @Security BearerAuth
// @Param id path int true "Meeting ID"
// @Success 200 {file} file "transcript.txt"
// @Failure 404 {object} errors.APIError "Meeting not found"
// @Router /minutes/{id}/transcript [get]
func (h *MeetingHandler) Transcript(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}
	meeting, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	Attachment(c, TranscriptFileName, textContentType, []byte(meeting.DisplayTranscript()))
}

// Delete handles DELETE /api/v1/minutes/:id
// @Summary Delete a meeting
// @Tags minutes
// @Security BearerAuth
// @Param id path int true "Meeting ID"
// @Success 204 "Deleted"
// @Failure 404 {object} errors.APIError "Meeting not found"
// @Router /minutes/{id} [delete]
func (h *MeetingHandler) Delete(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export handles GET /api/v1/minutes/export
// @Summary Export meetings to Excel
// @Tags minutes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "meetings.xlsx"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /minutes/export [get]
func (h *MeetingHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), middleware.CurrentUser(c), &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}
	Attachment(c, ExportFileName, xlsxContentType, buf.Bytes())
}

// Attachment writes data as a download named fileName
func Attachment(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, contentType, data)
}

func meetingID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid meeting ID"))
		return 0, false
	}
	return id, true
}
