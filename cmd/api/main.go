package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"smartshop.org/internal/authority"
	"smartshop.org/internal/config"
	"smartshop.org/internal/creds"
	"smartshop.org/internal/httpapi"
	"smartshop.org/internal/obs"
	"smartshop.org/internal/session"
	"smartshop.org/internal/vendors"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.Authority.DSN == "" {
		log.Fatalf("%s is required", config.EnvPGDSN)
	}
	db, err := sql.Open("pgx", cfg.Authority.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	verifier := authority.NewClient(db, cfg.Authority.Timeout.Std())

	tokens, err := creds.NewIssuer([]byte(cfg.Token.Secret), cfg.Token.TTL.Std())
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	sessions := session.NewStore(cfg.StateDir)
	// A missing or corrupt prior session must never block startup.
	if _, err := sessions.Load(); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			obs.Log("info", "no saved session", nil)
		} else {
			obs.Log("error", "saved session unreadable", map[string]any{"error": err.Error()})
		}
	}

	vendorList := make([]vendors.Vendor, 0, len(cfg.Vendors.List))
	for _, v := range cfg.Vendors.List {
		vendorList = append(vendorList, vendors.Vendor{
			Name:     v.Name,
			BaseURL:  v.BaseURL,
			APIKey:   v.APIKey,
			Host:     v.Host,
			PageSize: v.PageSize,
		})
	}
	facade := vendors.NewFacade(vendorList, cfg.Vendors.Timeout.Std())

	api := httpapi.New(verifier, tokens, sessions, facade, version)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting smartshop-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	log.Println("Stopped")
}
