package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"pdfcast/config"
	"pdfcast/controller"
	"pdfcast/services"
	"pdfcast/store"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// Create HTTP clients properly
	embedClient := &http.Client{
		Timeout: time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
	}
	ttsClient := &http.Client{
		Timeout: time.Duration(cfg.TTS.TimeoutSecs) * time.Second,
	}

	// Open the document store
	dbStore, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to open document store: %v", err)
	}
	defer func() {
		if err := dbStore.Close(); err != nil {
			log.Printf("Warning: Failed to close document store: %v", err)
		}
	}()

	// Create Gemini client
	geminiKey := firstEnv("GOOGLE_API_KEY", "GEMINI_API_KEY", "GENAI_API_KEY")
	geminiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  geminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to create Gemini client: %v. Make sure GEMINI_API_KEY is set.", err)
	}
	log.Println("Successfully connected to Google Gemini.")

	cartesiaKey := os.Getenv("CARTESIA_API_KEY")

	// Wire the pipeline
	fileSvc, err := services.NewFileService(cfg.Storage.UploadDir, cfg.Storage.AudioDir)
	if err != nil {
		log.Fatalf("FATAL: Failed to prepare storage directories: %v", err)
	}
	embedder := services.NewOllamaEmbedder(embedClient, cfg.Ollama)
	vectorSvc := services.NewVectorService(embedder)
	chunker := services.NewChunkerService(cfg.Chunking)
	generator := services.NewGeminiGenerator(geminiClient, cfg.LLM.Model)
	llmSvc := services.NewLLMService(generator, cfg.LLM, cfg.TTS.HostA, cfg.TTS.HostB)
	parser := services.NewScriptParser(cfg.TTS.HostA, cfg.TTS.HostB)
	synth := services.NewCartesiaSynthesizer(ttsClient, cfg.TTS, cartesiaKey)
	ttsSvc := services.NewTTSService(synth, fileSvc)
	audioSvc := services.NewAudioService(cfg.Audio, fileSvc)

	ragService := services.NewRAGService(
		dbStore, fileSvc, services.UniPDFExtractor{}, chunker, vectorSvc, llmSvc,
		parser, ttsSvc, audioSvc, cfg, geminiKey != "", cartesiaKey != "",
	)
	ragController := controller.NewRAGController(ragService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Add health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "PDF to Podcast API",
			"version": "1.0.0",
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/status", ragController.Status)
		apiV1.POST("/projects", ragController.CreateProject)
		apiV1.GET("/projects", ragController.ListProjects)
		apiV1.GET("/projects/:id", ragController.GetProject)
		apiV1.DELETE("/projects/:id", ragController.DeleteProject)
		apiV1.POST("/projects/:id/upload", ragController.UploadPDF)
		apiV1.GET("/projects/:id/podcasts", ragController.GetPodcasts)
		apiV1.GET("/projects/:id/source", ragController.GetSourceFile)
		apiV1.POST("/chat", ragController.Chat)
		apiV1.POST("/generate_podcast", ragController.GeneratePodcast)
		apiV1.GET("/audio/:filename", ragController.GetAudio)
	}

	// Start the Server
	log.Printf("PDF to Podcast server starting on http://localhost:%s", cfg.Server.Port)
	log.Printf("Health check available at: http://localhost:%s/health", cfg.Server.Port)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
