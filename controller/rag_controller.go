package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfcast/models"
	"pdfcast/services"
)

// RAGController handles the HTTP requests for the API. It is a thin
// marshaling layer: parsing, delegating to the service, and mapping the
// service's error categories onto status codes.
type RAGController struct {
	ragService services.RAGService
}

// NewRAGController is called from main.go to inject the service dependency.
func NewRAGController(service services.RAGService) *RAGController {
	return &RAGController{ragService: service}
}

// respondError translates the service error taxonomy: input errors become
// 400, missing resources 404, everything else a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound), errors.Is(err, services.ErrFileNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoDocument),
		errors.Is(err, services.ErrEmptyDocument),
		errors.Is(err, services.ErrInvalidTopK),
		errors.Is(err, services.ErrInvalidDuration):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateProject is the handler for POST /api/v1/projects.
func (c *RAGController) CreateProject(ctx *gin.Context) {
	var req models.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	project, err := c.ragService.CreateProject(ctx.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":     "success",
		"project_id": project.ID,
		"name":       project.Name,
	})
}

// ListProjects is the handler for GET /api/v1/projects.
func (c *RAGController) ListProjects(ctx *gin.Context) {
	projects, err := c.ragService.ListProjects(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject is the handler for GET /api/v1/projects/:id.
func (c *RAGController) GetProject(ctx *gin.Context) {
	project, err := c.ragService.GetProject(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, project)
}

// DeleteProject is the handler for DELETE /api/v1/projects/:id.
func (c *RAGController) DeleteProject(ctx *gin.Context) {
	if err := c.ragService.DeleteProject(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "Project deleted"})
}

// UploadPDF is the handler for POST /api/v1/projects/:id/upload.
func (c *RAGController) UploadPDF(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing uploaded file: " + err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not open uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file: " + err.Error()})
		return
	}

	resp, err := c.ragService.ProcessUpload(ctx.Request.Context(), ctx.Param("id"), fileHeader.Filename, content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetPodcasts is the handler for GET /api/v1/projects/:id/podcasts.
func (c *RAGController) GetPodcasts(ctx *gin.Context) {
	podcasts, err := c.ragService.GetPodcasts(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"podcasts": podcasts})
}

// GetSourceFile is the handler for GET /api/v1/projects/:id/source.
func (c *RAGController) GetSourceFile(ctx *gin.Context) {
	path, err := c.ragService.SourceFilePath(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Header("Content-Type", "application/pdf")
	ctx.File(path)
}

// Chat is the handler for POST /api/v1/chat.
func (c *RAGController) Chat(ctx *gin.Context) {
	var req models.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := c.ragService.Chat(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GeneratePodcast is the handler for POST /api/v1/generate_podcast.
func (c *RAGController) GeneratePodcast(ctx *gin.Context) {
	var req models.PodcastRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	podcast, err := c.ragService.GeneratePodcast(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.PodcastResponse{
		Status:        "success",
		PodcastID:     podcast.ID,
		PodcastURL:    "/api/v1/audio/" + podcast.AudioFilename,
		Script:        podcast.Script,
		SegmentsCount: podcast.SegmentCount,
	})
}

// GetAudio is the handler for GET /api/v1/audio/:filename.
func (c *RAGController) GetAudio(ctx *gin.Context) {
	path, err := c.ragService.AudioFilePath(ctx.Param("filename"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Header("Content-Type", "audio/mpeg")
	ctx.File(path)
}

// Status is the handler for GET /api/v1/status.
func (c *RAGController) Status(ctx *gin.Context) {
	status, err := c.ragService.Status(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}
