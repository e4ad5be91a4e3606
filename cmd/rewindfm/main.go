package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mcosta/rewindfm/internal/api"
	"github.com/mcosta/rewindfm/internal/config"
	"github.com/mcosta/rewindfm/internal/database"
	"github.com/mcosta/rewindfm/internal/encryption"
	"github.com/mcosta/rewindfm/internal/logging"
	"github.com/mcosta/rewindfm/internal/provider"
	"github.com/mcosta/rewindfm/internal/provider/audiodb"
	"github.com/mcosta/rewindfm/internal/provider/lastfm"
	"github.com/mcosta/rewindfm/internal/provider/spotify"
	"github.com/mcosta/rewindfm/internal/provider/wikidata"
	"github.com/mcosta/rewindfm/internal/render"
	"github.com/mcosta/rewindfm/internal/store"
	"github.com/mcosta/rewindfm/internal/story"
	"github.com/mcosta/rewindfm/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("RW_CONFIG_PATH")
	if configPath == "" {
		configPath = "/data/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logCloser := logging.New(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	})
	defer logCloser.Close() //nolint:errcheck
	slog.SetDefault(logger)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database ready", slog.String("path", cfg.Database.Path))

	encKey, err := resolveEncryptionKey(cfg, logger)
	if err != nil {
		return fmt.Errorf("resolving encryption key: %w", err)
	}
	encryptor, err := encryption.New(encKey)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}

	st := store.New(db, encryptor, logger)
	recorder := store.NewRecorder(st)

	rateLimiters := provider.NewRateLimiterMap()
	lastfmClient := lastfm.New(cfg.LastFM.APIKey, rateLimiters, logger)
	audiodbClient := audiodb.New(cfg.AudioDB.APIKey, rateLimiters, logger)
	wikidataClient := wikidata.New(rateLimiters, logger)

	inliner := story.NewInliner(nil, cfg.Story.InlineMaxBytes)
	sources := []story.ImageSource{
		&story.EmbeddedSource{Inliner: inliner},
		&story.LastFMInfoSource{Client: lastfmClient, Inliner: inliner},
		&story.AudioDBSource{Client: audiodbClient},
		&story.WikidataSource{Client: wikidataClient},
	}

	ctx := context.Background()
	spotifyClient := buildSpotifyClient(ctx, cfg, st, rateLimiters, logger)
	if spotifyClient != nil {
		sources = append(sources, &story.SpotifySource{Client: spotifyClient})
	}

	resolver := story.NewResolver(logger, sources...)

	var storyService *story.Service
	if spotifyClient != nil {
		storyService = story.NewService(lastfmClient, spotifyClient, resolver, recorder, logger, cfg.Story.TileLimit)
	} else {
		storyService = story.NewService(lastfmClient, nil, resolver, recorder, logger, cfg.Story.TileLimit)
	}

	renderer := render.New(nil, logger, cfg.Story.InlineMaxBytes)

	router := api.NewRouter(api.RouterDeps{
		Stories:  storyService,
		Renderer: renderer,
		LastFM:   lastfmClient,
		Store:    st,
		Logger:   logger,
		BasePath: cfg.Server.BasePath,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Story builds fan out across several upstream APIs.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting rewindfm",
			slog.String("version", version.Version),
			slog.String("commit", version.Commit),
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-shutdownCtx.Done():
	}

	logger.Info("shutting down")
	timeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(timeout); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// buildSpotifyClient wires the connected-account source when credentials
// exist. The refresh token comes from config on first boot and from the
// sealed credential store afterwards; rotations are persisted back.
func buildSpotifyClient(ctx context.Context, cfg *config.Config, st *store.Store, limiters *provider.RateLimiterMap, logger *slog.Logger) *spotify.Client {
	const credName = "spotify_refresh_token"

	creds := spotify.Credentials{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RefreshToken: cfg.Spotify.RefreshToken,
	}

	if creds.RefreshToken == "" {
		stored, err := st.LoadCredential(ctx, credName)
		if err == nil {
			creds.RefreshToken = stored
		} else if !errors.Is(err, store.ErrCredentialNotFound) {
			logger.Warn("loading stored spotify token failed", "error", err)
		}
	} else {
		if err := st.SaveCredential(ctx, credName, creds.RefreshToken); err != nil {
			logger.Warn("storing spotify token failed", "error", err)
		}
	}

	if !creds.Configured() {
		logger.Info("spotify credentials absent, connected-account source disabled")
		return nil
	}

	ts := creds.TokenSource(ctx, func(refreshToken string) {
		if err := st.SaveCredential(context.Background(), credName, refreshToken); err != nil {
			logger.Warn("persisting rotated spotify token failed", "error", err)
		}
	})
	return spotify.New(ts, limiters, logger)
}

// resolveEncryptionKey determines the key sealing stored credentials.
// Priority: config/env > key file next to the database > generate new.
func resolveEncryptionKey(cfg *config.Config, logger *slog.Logger) (string, error) {
	if cfg.Encryption.Key != "" {
		return cfg.Encryption.Key, nil
	}

	keyFile := filepath.Join(filepath.Dir(cfg.Database.Path), "encryption.key")

	data, err := os.ReadFile(keyFile) //nolint:gosec // path derived from trusted config
	if err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			logger.Debug("loaded encryption key from file", slog.String("path", keyFile))
			return key, nil
		}
	}

	key, err := encryption.GenerateKey()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(keyFile, []byte(key), 0o600); err != nil {
		return "", fmt.Errorf("writing key file: %w", err)
	}
	logger.Info("generated new encryption key", slog.String("path", keyFile))
	return key, nil
}
