// @title        Library API
// @version      1.0
// @description  Book catalogue and loan tracking for a small library.
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "library-api/docs"
	"library-api/internal/library/books"
	"library-api/internal/library/loans"
	"library-api/internal/platform/apierr"
	"library-api/internal/platform/auth"
	"library-api/internal/platform/db"
	"library-api/internal/platform/requestid"
)

func main() {
	if err := newServerCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "library-api",
		Short:         "Serve the library REST API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := serve(cmd.Context(), configPath)
			if err != nil {
				log.Printf("[ERROR] %v", err)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config/config.yaml", "path to config.yaml")
	return cmd
}

// serve は SIGINT/SIGTERM か ctx のキャンセルまで待ってからシャットダウンする。
func serve(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 設定読み込み
	cfg, err := db.LoadConfig(configPath)
	if err != nil {
		return err
	}
	log.Printf("[INFO] mode:%s driver:%s", cfg.Mode, cfg.DB.Driver)

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[INFO] connected to DB: %s%s", cfg.DB.DBName, cfg.DB.Path)

	schemaCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = db.EnsureSchema(schemaCtx, conn)
	cancel()
	if err != nil {
		return err
	}

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(cfg, conn),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.Server.TLS() {
			log.Printf("[INFO] listening on https://%s", cfg.Server.Addr)
			err = srv.ListenAndServeTLS(cfg.Server.Cert, cfg.Server.Key)
		} else {
			log.Printf("[INFO] listening on http://%s", cfg.Server.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Println("[INFO] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newRouter(cfg *db.Config, conn *sqlx.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestid.Middleware())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestid.Header},
			ExposeHeaders:    []string{"Content-Length", "Location", requestid.Header},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	var write []gin.HandlerFunc
	if cfg.Auth.Enabled {
		authSvc := auth.NewService(conn, cfg.Auth)
		write = auth.Staff(authSvc.Secret())
		auth.RegisterRoutes(api, authSvc, auth.Admin(authSvc.Secret())...)
	} else {
		log.Println("[WARN] auth disabled: write routes are open")
	}

	books.RegisterRoutes(api, books.NewService(conn), write...)
	loans.RegisterRoutes(api, loans.NewService(conn), write...)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apierr.Body{Errors: []string{"route not found"}})
	})
	return r
}
