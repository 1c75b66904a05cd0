package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdfcast/config"
	"pdfcast/models"
	"pdfcast/store"
)

// RAGService interface defines the core operations of the application.
type RAGService interface {
	CreateProject(ctx context.Context, name, description string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.ProjectSummary, error)
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	ProcessUpload(ctx context.Context, projectID, filename string, content []byte) (*models.UploadResponse, error)
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	GeneratePodcast(ctx context.Context, req models.PodcastRequest) (*models.Podcast, error)
	GetPodcasts(ctx context.Context, projectID string) ([]models.Podcast, error)
	Status(ctx context.Context) (*models.StatusResponse, error)
	AudioFilePath(filename string) (string, error)
	SourceFilePath(ctx context.Context, projectID string) (string, error)
}

// ragServiceImpl holds the dependencies it needs to do its job.
type ragServiceImpl struct {
	dbStore    *store.SQLiteStore
	fileSvc    *FileService
	extractor  PageExtractor
	chunker    *ChunkerService
	vectorSvc  *VectorService
	llmSvc     *LLMService
	parser     *ScriptParser
	ttsSvc     *TTSService
	audioSvc   *AudioService
	cfg        *config.AppConfig
	geminiOK   bool
	cartesiaOK bool

	// Mutating operations (upload, podcast generation, delete) are
	// serialized per project id. Chat reads the persisted index snapshot
	// and takes no lock; index writes are atomic renames, so a reader
	// sees either the old or the new index, never a torn one.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRAGService wires the pipeline together. All external clients are
// constructed once at startup and injected here.
func NewRAGService(
	dbStore *store.SQLiteStore,
	fileSvc *FileService,
	extractor PageExtractor,
	chunker *ChunkerService,
	vectorSvc *VectorService,
	llmSvc *LLMService,
	parser *ScriptParser,
	ttsSvc *TTSService,
	audioSvc *AudioService,
	cfg *config.AppConfig,
	geminiConfigured, cartesiaConfigured bool,
) RAGService {
	return &ragServiceImpl{
		dbStore:    dbStore,
		fileSvc:    fileSvc,
		extractor:  extractor,
		chunker:    chunker,
		vectorSvc:  vectorSvc,
		llmSvc:     llmSvc,
		parser:     parser,
		ttsSvc:     ttsSvc,
		audioSvc:   audioSvc,
		cfg:        cfg,
		geminiOK:   geminiConfigured,
		cartesiaOK: cartesiaConfigured,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (r *ragServiceImpl) projectLock(projectID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[projectID] = l
	}
	return l
}

func (r *ragServiceImpl) loadProject(projectID string) (*models.Project, error) {
	project, err := r.dbStore.GetProject(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// CreateProject creates a new, empty project.
func (r *ragServiceImpl) CreateProject(ctx context.Context, name, description string) (*models.Project, error) {
	projectID := "project_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	project, err := r.dbStore.CreateProject(projectID, name, description)
	if err != nil {
		return nil, fmt.Errorf("could not create project: %w", err)
	}
	log.Printf("SERVICE: Created project %s (%s).", project.ID, name)
	return project, nil
}

// ListProjects returns summaries of all projects.
func (r *ragServiceImpl) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	return r.dbStore.ListProjects()
}

// GetProject returns a project with its podcasts.
func (r *ragServiceImpl) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	return r.loadProject(projectID)
}

// DeleteProject removes a project record and every file it owns: source
// PDF, persisted index, and all podcast audio. Deleting a project that
// never processed a source file still succeeds.
func (r *ragServiceImpl) DeleteProject(ctx context.Context, projectID string) error {
	lock := r.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := r.dbStore.DeleteProject(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	r.fileSvc.CleanupProject(project)
	log.Printf("SERVICE: Deleted project %s.", projectID)
	return nil
}

// ProcessUpload saves the uploaded PDF, extracts its text page by page,
// chunks it, builds and persists the vector index, and only then records
// the results on the project. The store update is atomic, and the index
// path is never recorded unless the index file was actually written, so a
// failed upload cannot leave a project looking processed.
func (r *ragServiceImpl) ProcessUpload(ctx context.Context, projectID, filename string, content []byte) (*models.UploadResponse, error) {
	lock := r.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := r.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	pdfPath, err := r.fileSvc.SaveUpload(projectID, filename, content)
	if err != nil {
		return nil, err
	}

	pages, err := r.extractor.ExtractPages(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("could not extract PDF text: %w", err)
	}
	markedText := MarkedText(pages)

	chunks, err := r.chunker.Chunk(markedText)
	if err != nil {
		return nil, fmt.Errorf("could not chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	index, err := r.vectorSvc.BuildIndex(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("could not build index: %w", err)
	}

	indexPath := r.fileSvc.IndexPath(projectID)
	if err := r.vectorSvc.SaveIndex(index, indexPath); err != nil {
		return nil, fmt.Errorf("could not save index: %w", err)
	}

	if err := r.dbStore.UpdateProjectPDF(projectID, filename, pdfPath, markedText, chunks, indexPath); err != nil {
		return nil, fmt.Errorf("could not record processed PDF: %w", err)
	}

	// A re-upload under a new filename leaves the previous source behind.
	if project.PDFPath != "" && project.PDFPath != pdfPath {
		if err := r.fileSvc.RemoveIfExists(project.PDFPath); err != nil {
			log.Printf("SERVICE WARN: could not remove replaced source: %v", err)
		}
	}

	totalPages := 0
	for _, c := range chunks {
		if c.Page > totalPages {
			totalPages = c.Page
		}
	}

	log.Printf("SERVICE: Processed %s for project %s: %d chunks, %d pages.", filename, projectID, len(chunks), totalPages)
	return &models.UploadResponse{
		Status:      "success",
		Filename:    filename,
		TotalChunks: len(chunks),
		TotalPages:  totalPages,
		WordCount:   len(strings.Fields(markedText)),
	}, nil
}

// Chat answers a question against the project's indexed document and
// returns the answer with page-cited references.
func (r *ragServiceImpl) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	project, err := r.loadProject(req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.IndexPath == "" {
		return nil, ErrNoDocument
	}

	topK := req.TopK
	if topK == 0 {
		topK = r.cfg.Retrieval.TopK
	}
	if topK < 1 {
		return nil, ErrInvalidTopK
	}

	index, err := r.vectorSvc.LoadIndex(project.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("could not load index: %w", err)
	}

	results, err := r.vectorSvc.Search(ctx, index, project.Chunks, req.Query, topK)
	if err != nil {
		return nil, err
	}

	answer, err := r.llmSvc.AnswerWithContext(ctx, req.Query, results)
	if err != nil {
		return nil, err
	}

	references := make([]models.Reference, len(results))
	for i, res := range results {
		preview := res.Text
		if len(preview) > 200 {
			preview = preview[:runeBoundary(preview, 200)] + "..."
		}
		references[i] = models.Reference{
			Page:        res.Page,
			TextPreview: preview,
			Relevance:   res.RelevanceScore,
		}
	}

	return &models.ChatResponse{Answer: answer, References: references}, nil
}

// GeneratePodcast turns the project's document into a two-host episode:
// script generation, deterministic parsing into speaker turns, sequential
// per-segment synthesis, and assembly into a single exported file. The
// new podcast record is appended to the project.
func (r *ragServiceImpl) GeneratePodcast(ctx context.Context, req models.PodcastRequest) (*models.Podcast, error) {
	lock := r.projectLock(req.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := r.loadProject(req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.PDFText == "" {
		return nil, ErrNoDocument
	}

	duration := req.Duration
	if duration == "" {
		duration = "medium"
	}

	script, err := r.llmSvc.GeneratePodcastScript(ctx, project.PDFText, req.Topic, duration)
	if err != nil {
		return nil, err
	}

	segments := r.parser.Parse(script)
	if len(segments) == 0 {
		return nil, ErrEmptyScript
	}
	log.Printf("SERVICE: Parsed script into %d segments for project %s.", len(segments), req.ProjectID)

	report, err := r.ttsSvc.SynthesizeSegments(ctx, segments, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if len(report.Files) == 0 {
		return nil, ErrNoAudioSegments
	}

	audioPath, err := r.audioSvc.AssemblePodcast(report.Files, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("could not assemble podcast audio: %w", err)
	}

	podcast := models.Podcast{
		ID:            uuid.NewString(),
		ProjectID:     req.ProjectID,
		CreatedAt:     time.Now().UTC(),
		Topic:         req.Topic,
		Duration:      duration,
		Script:        script,
		AudioPath:     audioPath,
		AudioFilename: filepath.Base(audioPath),
		SegmentCount:  len(segments),
	}
	if err := r.dbStore.AddPodcast(podcast); err != nil {
		return nil, fmt.Errorf("could not save podcast record: %w", err)
	}

	log.Printf("SERVICE: Generated podcast %s for project %s (%d segments, %d skipped).",
		podcast.ID, req.ProjectID, len(segments), len(report.Failed))
	return &podcast, nil
}

// GetPodcasts returns all podcasts for a project.
func (r *ragServiceImpl) GetPodcasts(ctx context.Context, projectID string) ([]models.Podcast, error) {
	if _, err := r.loadProject(projectID); err != nil {
		return nil, err
	}
	return r.dbStore.GetPodcasts(projectID)
}

// Status reports system health.
func (r *ragServiceImpl) Status(ctx context.Context) (*models.StatusResponse, error) {
	count, err := r.dbStore.CountProjects()
	if err != nil {
		return nil, err
	}
	return &models.StatusResponse{
		Status:             "online",
		DatabaseConnected:  r.dbStore.Ping() == nil,
		ProjectCount:       count,
		GeminiConfigured:   r.geminiOK,
		CartesiaConfigured: r.cartesiaOK,
	}, nil
}

// AudioFilePath resolves an exported audio filename to a servable path.
func (r *ragServiceImpl) AudioFilePath(filename string) (string, error) {
	if !r.fileSvc.AudioExists(filename) {
		return "", ErrFileNotFound
	}
	return r.fileSvc.AudioPath(filename), nil
}

// SourceFilePath resolves a project's uploaded PDF to a servable path.
func (r *ragServiceImpl) SourceFilePath(ctx context.Context, projectID string) (string, error) {
	project, err := r.loadProject(projectID)
	if err != nil {
		return "", err
	}
	if project.PDFPath == "" {
		return "", ErrNoDocument
	}
	if _, err := os.Stat(project.PDFPath); err != nil {
		return "", ErrFileNotFound
	}
	return project.PDFPath, nil
}
