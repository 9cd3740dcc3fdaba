// Package container wires the application's singletons together.
package container

import (
	"github.com/presetbase/presetbase-go/internal/application/services"
	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/manager"
	"github.com/presetbase/presetbase-go/internal/infrastructure/email"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/media"
	"github.com/presetbase/presetbase-go/internal/infrastructure/messaging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/persistence/cachedb"
	"github.com/presetbase/presetbase-go/pkg/config"
)

// Container holds every long-lived dependency. Built once at startup and
// threaded through the HTTP layer.
type Container struct {
	Logger      *logging.ChanneledLogger
	CacheDB     *cachedb.Database
	Cache       *manager.Manager
	Gateway     *gateway.Client
	Email       *email.Client
	Broadcaster *messaging.RefreshBroadcaster

	AuthService       *services.AuthService
	BrowseService     *services.BrowseService
	PublicService     *services.PublicService
	EditorService     *services.EditorService
	SuggestService    *services.SuggestService
	SubmissionService *services.SubmissionService
	UploadService     *services.UploadService
}

// New builds the container. The cache database and email client are
// optional: the cache degrades to memory-only and decision emails are
// skipped when they fail to initialize.
func New(logger *logging.ChanneledLogger) *Container {
	cacheDB, err := cachedb.NewDatabase(&cachedb.Config{
		SQLitePath:    config.CacheDBPath,
		TursoDatabase: config.TursoDatabase,
		TursoToken:    config.TursoToken,
	})
	if err != nil {
		logger.Startup().Warn("Cache persistence unavailable; running memory-only", "error", err.Error())
		cacheDB = nil
	} else {
		logger.Startup().Info("Cache persistence ready", "connection", cacheDB.GetConnectionInfo())
	}

	cache := manager.NewManager(cacheDB, logger)
	gatewayClient := gateway.NewClient(config.UpstreamBaseURL, config.UpstreamTimeout, logger)
	broadcaster := messaging.NewRefreshBroadcaster(logger)

	emailClient, err := email.NewClient(config.ResendAPIKey, config.EmailFrom, config.EmailFromName)
	if err != nil {
		logger.Startup().Warn("Email disabled", "reason", err.Error())
		emailClient = nil
	}

	imageValidator := media.NewImageValidator(config.MinImageWidth, config.MinImageHeight, config.ArtworkQuality)
	audioValidator := media.NewAudioValidator(config.MaxAudioSeconds)

	return &Container{
		Logger:      logger,
		CacheDB:     cacheDB,
		Cache:       cache,
		Gateway:     gatewayClient,
		Email:       emailClient,
		Broadcaster: broadcaster,

		AuthService: services.NewAuthService(
			config.AdminUsername, config.AdminPasswordHash, config.JWTSecret,
			config.AccessTokenTTL, config.RefreshTokenTTL, logger),
		BrowseService:     services.NewBrowseService(gatewayClient, cache, logger, config.DefaultCacheTTL),
		PublicService:     services.NewPublicService(gatewayClient, cache, logger, config.DefaultCacheTTL),
		EditorService:     services.NewEditorService(gatewayClient, cache, broadcaster, logger),
		SuggestService:    services.NewSuggestService(gatewayClient, logger, config.SuggestDebounce, config.SuggestLimit),
		SubmissionService: services.NewSubmissionService(gatewayClient, cache, emailClient, broadcaster, logger),
		UploadService:     services.NewUploadService(gatewayClient, imageValidator, audioValidator, logger, int64(config.MaxUploadBytes)),
	}
}

// Shutdown stops background work and closes connections.
func (c *Container) Shutdown() {
	c.EditorService.StopJanitor()
	c.Cache.Stop()
	if c.CacheDB != nil {
		if err := c.CacheDB.Close(); err != nil {
			c.Logger.Shutdown().Error("Failed to close cache database", "error", err.Error())
		}
	}
}
