package handler

import (
	"errors"
	"html/template"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zots0127/replay-exchange/internal/domain/entities"
	"github.com/zots0127/replay-exchange/internal/usecase"
	"github.com/zots0127/replay-exchange/pkg/middleware"
)

const uploadField = "file"

var errMalformedForm = errors.New("malformed multipart form")

var statusTemplate = template.Must(template.New("status.html").Parse(`
    <html>
        <head><title>OSU Replay Server</title></head>
        <body>
            <h1>OSU Replay Server</h1>
            <p>Status: Online</p>
            <p>Total replays: {{.ReplayCount}}</p>
            <p><a href="/list">View all replays</a></p>
        </body>
    </html>
`))

// ReplayHandler serves the replay upload, list, download and status endpoints
type ReplayHandler struct {
	replayUseCase *usecase.ReplayUseCase
	logger        middleware.Logger
}

// NewReplayHandler creates a new replay handler
func NewReplayHandler(replayUseCase *usecase.ReplayUseCase, logger middleware.Logger) *ReplayHandler {
	if logger == nil {
		logger = middleware.NopLogger{}
	}
	return &ReplayHandler{
		replayUseCase: replayUseCase,
		logger:        logger,
	}
}

// RegisterRoutes registers replay routes and the status page template
func (h *ReplayHandler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(statusTemplate)

	router.GET("/", h.StatusPage)
	router.POST("/upload", h.UploadReplay)
	router.GET("/list", h.ListReplays)
	router.GET("/download/:filename", h.DownloadReplay)
	router.HEAD("/download/:filename", h.DownloadReplay)
}

// UploadReplay streams the multipart "file" part into the store under its own filename
func (h *ReplayHandler) UploadReplay(c *gin.Context) {
	part, err := filePart(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer part.Close()

	filename := part.FileName()
	size, err := h.replayUseCase.Upload(c.Request.Context(), filename, part)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Received replay",
		"filename", filename,
		"size", size,
		"request_id", middleware.GetRequestID(c),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Replay received and saved",
	})
}

// ListReplays returns every stored replay with its size
func (h *ReplayHandler) ListReplays(c *gin.Context) {
	replays, err := h.replayUseCase.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if replays == nil {
		replays = []entities.Replay{}
	}

	c.JSON(http.StatusOK, gin.H{"replays": replays})
}

// DownloadReplay streams the named replay back to the client
func (h *ReplayHandler) DownloadReplay(c *gin.Context) {
	file, replay, err := h.replayUseCase.Download(c.Request.Context(), c.Param("filename"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	h.logger.Debug("Serving replay", "filename", replay.Filename, "size", replay.Size)

	// ServeContent handles Range and conditional requests
	http.ServeContent(c.Writer, c.Request, replay.Filename, replay.ModTime, file)
}

// StatusPage renders the human-readable server status
func (h *ReplayHandler) StatusPage(c *gin.Context) {
	status, err := h.replayUseCase.Status(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.HTML(http.StatusOK, "status.html", status)
}

// filePart advances the request body to the upload part. Only a part whose
// Content-Disposition carries a filename parameter is a file; a plain field
// named "file" is skipped like any other field.
func filePart(c *gin.Context) (*multipart.Part, error) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, entities.ErrMissingFilePart
		}
		return nil, errMalformedForm
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return nil, entities.ErrMissingFilePart
		}
		if err != nil {
			return nil, errMalformedForm
		}

		if part.FormName() != uploadField {
			part.Close()
			continue
		}

		_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		if err != nil {
			part.Close()
			return nil, errMalformedForm
		}
		filename, ok := params["filename"]
		if !ok {
			part.Close()
			continue
		}
		if filename == "" {
			part.Close()
			return nil, entities.ErrEmptyFilename
		}

		return part, nil
	}
}

func (h *ReplayHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entities.ErrMissingFilePart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
	case errors.Is(err, entities.ErrEmptyFilename):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file: empty filename"})
	case errors.Is(err, entities.ErrInvalidFilename):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
	case errors.Is(err, errMalformedForm):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed multipart body"})
	case errors.Is(err, entities.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
	default:
		_ = c.Error(err)
		h.logger.Error("Replay request failed",
			"path", c.Request.URL.Path,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(c),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
