package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/BrasserTech/handluz/internal/client/config"
	"github.com/BrasserTech/handluz/internal/client/localdb"
	"github.com/BrasserTech/handluz/internal/client/media"
	"github.com/BrasserTech/handluz/internal/client/push"
	"github.com/BrasserTech/handluz/internal/client/remote"
	"github.com/BrasserTech/handluz/internal/client/repositories/metadata"
	"github.com/BrasserTech/handluz/internal/client/services"
	"github.com/BrasserTech/handluz/internal/client/session"
	"github.com/BrasserTech/handluz/internal/logging"
)

type App struct {
	config   *config.Config
	auth     *services.AuthManager
	uploader media.Uploader
	store    remote.Store
	log      logging.Logger
	reader   *bufio.Reader
}

// NewApp builds the full client object graph: local database, session store,
// remote store, push registrar, media uploader, and the auth manager on top.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}

	repo := metadata.NewSQLiteRepository(db)
	sessions := session.NewStore(repo, log)

	store, err := remote.Open(ctx, cfg.RemoteDSN)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var registrar push.Registrar = push.Noop{}
	if cfg.PushGatewayURL != "" {
		registrar = push.NewGateway(cfg.PushGatewayURL, repo)
	}

	uploader := media.NewS3Uploader(media.S3Config{
		Region:        cfg.S3Region,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})

	auth := services.NewAuthManager(store, sessions, registrar, log, services.Options{
		RemoteTimeout: cfg.RemoteTimeout,
		MaxRetries:    cfg.RemoteMaxRetries,
	})

	return &App{
		config:   cfg,
		auth:     auth,
		uploader: uploader,
		store:    store,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the saved session and hands control to the REPL. It blocks
// until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	if err := a.auth.Bootstrap(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "err", err)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	user, _, _ := a.auth.Snapshot()
	return user != nil
}
