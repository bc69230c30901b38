package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"scholarhub/internal/auth"
	"scholarhub/internal/ingest"
	"scholarhub/internal/scholarship"
	"scholarhub/pkg/database"
	"scholarhub/pkg/utils"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()

	// avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not_ready",
				"db_error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	// Public read surface (consumed by the page renderer)
	repo := scholarship.NewRepo(db)
	handler := scholarship.NewHandler(repo)
	handler.RegisterRoutes(router.Group("/scholarships"))
	handler.RegisterMetaRoutes(router.Group("/meta"))
	router.GET("/stats", handler.GetStats)
	router.POST("/eligibility/check", handler.CheckEligibility)

	// Operator auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/admin"))

	boot := utils.LoadBootstrapConfig()
	if err := auth.Bootstrap(context.Background(), authRepo, boot.Username, boot.Email, boot.Password); err != nil {
		log.Printf("operator bootstrap failed: %v", err)
	}

	// Protected admin surface: trigger a sheet sync, inspect run history
	protected := router.Group("/admin")
	protected.Use(auth.Middleware(tokenSvc, authRepo))

	columnsPath := os.Getenv("SCHOLARHUB_COLUMNS_PATH")
	if columnsPath == "" {
		columnsPath = "configs/columns.yaml"
	}

	protected.POST("/ingest/run", func(c *gin.Context) {
		cm, err := ingest.LoadColumnMap(columnsPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		sheetCfg := utils.LoadSheetConfig()
		src := ingest.NewSheetSource(sheetCfg.SpreadsheetID, sheetCfg.Range, sheetCfg.APIKey)
		pipeline := ingest.NewPipeline(db, ingest.NewMapper(cm))

		rep, err := pipeline.Run(c.Request.Context(), src)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "report": rep})
			return
		}
		c.JSON(http.StatusOK, rep)
	})

	protected.GET("/ingest/runs", func(c *gin.Context) {
		runs, err := ingest.ListRuns(c.Request.Context(), db, 20)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list runs failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs})
	})

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
