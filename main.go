package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sumitjhk/Pastebin-Lite/clock"
	"github.com/sumitjhk/Pastebin-Lite/config"
	"github.com/sumitjhk/Pastebin-Lite/handlers"
	"github.com/sumitjhk/Pastebin-Lite/services"
	"github.com/sumitjhk/Pastebin-Lite/storage"
	"github.com/sumitjhk/Pastebin-Lite/utils"

	// Lambda imports (only used when in Lambda mode)
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

// Version/build info (set via -ldflags at build time)
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "none"
)

// Lambda-specific variables
var (
	ginLambdaV1   *ginadapter.GinLambda
	ginLambdaV2   *ginadapter.GinLambdaV2
	ginLambdaOnce sync.Once
)

// isLambdaEnvironment detects if running in AWS Lambda
func isLambdaEnvironment() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func main() {
	log.Printf("Pastebin-Lite Version: %s", Version)
	log.Printf("Build Time:    %s", BuildTime)
	log.Printf("Commit Hash:   %s", CommitHash)

	cfg := config.LoadConfig()
	cfg.Version = Version
	cfg.BuildTime = BuildTime
	cfg.CommitHash = CommitHash

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.TestMode {
		log.Printf("Test mode enabled: requests may pin the clock via %s", clock.TestHeader)
	}
	if utils.IsDebugEnabled() {
		log.Printf("[DEBUG] Loaded config: %+v", cfg)
	}

	// Lambda deployments have no local disk and no reachable localhost
	// services; DynamoDB is the only sensible backend there.
	if isLambdaEnvironment() && cfg.Backend != config.BackendDynamo {
		log.Printf("Lambda mode: overriding backend %q with dynamodb", cfg.Backend)
		cfg.Backend = config.BackendDynamo
	}

	store, err := storage.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	router := setupRouter(store, cfg, clock.System())

	if isLambdaEnvironment() {
		log.Println("Starting in AWS Lambda mode")
		ginLambdaOnce.Do(func() {
			ginLambdaV1 = ginadapter.New(router)
			ginLambdaV2 = ginadapter.NewV2(router)
		})
		lambda.Start(lambdaHandler)
		return
	}

	log.Println("Starting in HTTP server mode")
	runHTTPServer(router, cfg, store)
}

// lambdaHandler handles Lambda requests for both v1 and v2 formats
func lambdaHandler(ctx context.Context, event interface{}) (interface{}, error) {
	ginLambdaOnce.Do(func() {
		if ginLambdaV1 == nil || ginLambdaV2 == nil {
			log.Fatal("Lambda adapters are not initialized")
		}
	})

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 500,
			Body:       "Failed to process event",
			Headers:    map[string]string{"Content-Type": "text/plain"},
		}, err
	}

	// Lambda Function URLs and HTTP APIs deliver v2 events
	var reqV2 events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(eventBytes, &reqV2); err == nil && reqV2.RequestContext.HTTP.Method != "" {
		return ginLambdaV2.ProxyWithContext(ctx, reqV2)
	}

	// REST APIs and ALBs deliver v1 events
	var reqV1 events.APIGatewayProxyRequest
	if err := json.Unmarshal(eventBytes, &reqV1); err == nil && reqV1.HTTPMethod != "" {
		return ginLambdaV1.ProxyWithContext(ctx, reqV1)
	}

	log.Printf("Unable to parse event as APIGateway v1 or v2 format: %s", string(eventBytes))
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 500,
		Body:       "Unsupported event type - this function expects API Gateway or Lambda Function URL events",
		Headers:    map[string]string{"Content-Type": "text/plain"},
	}, fmt.Errorf("unsupported event type: %T", event)
}

// setupRouter creates and configures the Gin router
func setupRouter(store storage.RecordStore, cfg *config.Config, clk clock.Clock) *gin.Engine {
	pasteService := services.NewPasteService(store, cfg)

	pasteHandler := handlers.NewPasteHandler(pasteService, cfg, clk)
	systemHandler := handlers.NewSystemHandler(store)
	webuiHandler := handlers.NewWebUIHandler(pasteService, cfg, clk)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(jsonRecovery())
	router.Use(gin.Recovery())

	router.LoadHTMLGlob("static/*.html")

	// Web UI routes
	router.GET("/", webuiHandler.Index)
	router.GET("/p/:id", webuiHandler.Preview)

	// Core API routes
	router.POST("/api/pastes", pasteHandler.Create)
	router.GET("/api/pastes/:id", pasteHandler.Get)

	// System routes
	router.GET("/healthz", systemHandler.Health)
	router.GET("/metrics", handlers.Metrics())

	// Global 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})

	return router
}

// jsonRecovery returns a middleware that recovers from panics and ensures
// the response is JSON formatted so API clients can parse error responses.
func jsonRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] %v", r)
				c.Header("Content-Type", "application/json; charset=utf-8")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}

// runHTTPServer starts the HTTP server for container mode
func runHTTPServer(router *gin.Engine, cfg *config.Config, store storage.RecordStore) {
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting pastebin server on port %d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	} else {
		log.Println("Server shutdown complete")
	}
}
