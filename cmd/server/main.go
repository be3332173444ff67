package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/you/go-resale-pricing/internal/auth"
	"github.com/you/go-resale-pricing/internal/config"
	"github.com/you/go-resale-pricing/internal/httpx"
	"github.com/you/go-resale-pricing/internal/providers"
	"github.com/you/go-resale-pricing/internal/service"
)

func main() {

	// Loading config
	cfg := config.Load()

	// Marketplace API client supplying offer history and rollups
	market := providers.NewMarketplace(cfg)

	// Creating services
	suggestSvc := service.NewSuggestService(market, cfg.FetchTimeout, cfg.CacheTTL)
	trendSvc := service.NewTrendService()

	publicMux := http.NewServeMux()

	// Public: login to get JWT
	publicMux.HandleFunc("/auth/login", auth.LoginHandler(cfg))

	// Protected group with JWT
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("/pricing/suggest", httpx.SuggestHandler(suggestSvc))
	protectedMux.HandleFunc("/pricing/trend", httpx.TrendHandler(trendSvc))
	protectedMux.HandleFunc("/sse/", httpx.SubscribeSSEHandler(suggestSvc)) // /sse/{event_id}?sections=112,113
	protectedMux.HandleFunc("/ws/", httpx.SubscribeWSHandler(suggestSvc))

	// handler to control authenticated routes
	root := auth.JWTMiddleware(publicMux, protectedMux, cfg)

	// Creation of HTTP server
	srv := &http.Server{
		Addr:              ":8080",
		Handler:           root,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Running http server on a secondary thread
	go func() {
		log.Printf("server listening on http://localhost%s", srv.Addr)
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			log.Println("TLS enabled")
			log.Fatal(srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile))
		} else {
			log.Fatal(srv.ListenAndServe())
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
