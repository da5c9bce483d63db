package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tgo/tubechat/internal/chunker"
	"github.com/tgo/tubechat/internal/config"
	"github.com/tgo/tubechat/internal/embedding"
	"github.com/tgo/tubechat/internal/history"
	"github.com/tgo/tubechat/internal/ingest"
	"github.com/tgo/tubechat/internal/llm"
	"github.com/tgo/tubechat/internal/repository"
	"github.com/tgo/tubechat/internal/retrieval"
	"github.com/tgo/tubechat/internal/service"
)

func SetupRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// Health check endpoints
	r.GET("/health", healthCheck)
	r.GET("/ready", readinessCheck)
	r.GET("/live", livenessCheck)

	// Initialize repositories
	videoRepo := repository.NewVideoRepository(db)
	chunkRepo := repository.NewChunkRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Embedding gateway
	gateway := embedding.NewGateway(
		cfg.EmbeddingAPIKey,
		cfg.EmbeddingBaseURL,
		cfg.EmbeddingModel,
		cfg.EmbeddingDimension,
	)

	// Retrieval strategy over the chunk store
	strategy, err := retrieval.NewStrategy(chunkRepo, retrieval.Config{
		MinChunks:           cfg.MinChunks,
		MaxChunks:           cfg.MaxChunks,
		SimilarityThreshold: cfg.SimilarityThreshold,
	})
	if err != nil {
		return nil, err
	}

	// Generation capability, constructed once and shared
	chatModel, err := llm.NewFactory().Create(context.Background(), &llm.ProviderConfig{
		Kind:        llm.ProviderKind(cfg.LLMProvider),
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		BaseURL:     cfg.LLMBaseURL,
		Temperature: cfg.LLMTemperature,
	})
	if err != nil {
		return nil, err
	}
	generator := llm.NewChatModelGenerator(chatModel)

	// History store: database is authoritative, Redis cache optional
	var historyStore history.Store = history.NewDatabaseStore(messageRepo)
	if cfg.RedisURL != "" {
		cache, err := history.NewRedisStoreFromURL(cfg.RedisURL, 0)
		if err != nil {
			log.Printf("[Router] Redis unavailable, history cache disabled: %v", err)
		} else {
			historyStore = history.NewHybridStore(historyStore, cache)
		}
	}

	// Initialize services
	answerSvc := service.NewAnswerService(chatRepo, gateway, strategy, historyStore, generator, cfg.MaxMessages)
	chatSvc := service.NewChatService(chatRepo, messageRepo, historyStore)
	videoSvc := service.NewVideoService(videoRepo, chunkRepo, ingest.NewYouTubeLoader(), chunker.New(cfg.ChunkSize, cfg.ChunkOverlap), gateway)

	// Initialize handlers
	chatHandler := NewChatHandler(chatSvc, answerSvc)
	videoHandler := NewVideoHandler(videoSvc)

	chat := r.Group("/chat")
	{
		chat.POST("/create", chatHandler.Create)
		chat.POST("/ask", chatHandler.Ask)
		chat.POST("/ask-stream", chatHandler.AskStream)
		chat.GET("/messages", chatHandler.Messages)
		chat.GET("/chats", chatHandler.List)
		chat.DELETE("", chatHandler.Delete)
	}

	youtube := r.Group("/youtube")
	{
		youtube.POST("/import", videoHandler.Import)
		youtube.GET("/videos", videoHandler.List)
		youtube.DELETE("/video", videoHandler.Delete)
	}

	return r, nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tubechat",
	})
}

func readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

func livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
