// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"log"

	"conesa_estates_backend/internal/app"
	"conesa_estates_backend/internal/assistant"
	"conesa_estates_backend/internal/auth"
	"conesa_estates_backend/internal/config"
	"conesa_estates_backend/internal/contact"
	"conesa_estates_backend/internal/i18n"
	"conesa_estates_backend/internal/jobs"
	"conesa_estates_backend/internal/platform/cache"
	"conesa_estates_backend/internal/platform/database"
	"conesa_estates_backend/internal/platform/elasticsearch"
	"conesa_estates_backend/internal/platform/gemini"
	"conesa_estates_backend/internal/platform/logger"
	"conesa_estates_backend/internal/platform/storage"
	"conesa_estates_backend/internal/property"
	"conesa_estates_backend/internal/shared"
	"conesa_estates_backend/internal/upload"
	"conesa_estates_backend/internal/user"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform layer
		logger.New,
		database.NewGORM,
		elasticsearch.NewClient,
		cache.NewClient,
		storage.NewObjectStore,
		gemini.NewClient,
		provideCleanup,

		// Auth
		auth.NewJWTService,
		provideBlocklistConfig,
		auth.NewInMemoryBlocklistService,

		// Profiles
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(auth.CredentialService), new(*user.ServiceImplementation)),
		wire.Bind(new(property.OwnerNameResolver), new(*user.ServiceImplementation)),
		auth.NewHandler,
		user.NewHandler,

		// Catalog
		property.NewGORMRepository,
		wire.Bind(new(property.UploadReleaser), new(upload.Repository)),
		property.NewService,
		wire.Bind(new(property.Service), new(*property.ServiceImplementation)),
		wire.Bind(new(assistant.CatalogSource), new(property.Repository)),
		property.NewHandler,

		// Uploads
		upload.NewGORMRepository,
		provideUploadStore,
		upload.NewService,
		wire.Bind(new(upload.Service), new(*upload.ServiceImplementation)),
		upload.NewHandler,
		jobs.NewUploadCleanupJob,

		// Assistant, contact and translations
		wire.Bind(new(assistant.ContentGenerator), new(*gemini.Client)),
		assistant.NewService,
		wire.Bind(new(assistant.Service), new(*assistant.ServiceImplementation)),
		assistant.NewHandler,
		contact.NewHandler,
		i18n.NewHandler,

		// Application layer
		app.NewServer,
	)
	return nil, nil, nil
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}

// provideBlocklistConfig sizes the token blocklist cache from the refresh
// token lifetime, the longest any revoked token stays interesting.
func provideBlocklistConfig(cfg *config.Config) auth.InMemoryBlocklistConfig {
	return auth.InMemoryBlocklistConfig{
		DefaultExpiration: cfg.JWTRefreshTokenExpiryDays,
		CleanupInterval:   cfg.JWTRefreshTokenExpiryDays / 2,
	}
}

// provideUploadStore adapts the optional object store to the upload
// service's interface without wrapping a nil pointer in a non-nil interface.
func provideUploadStore(store *storage.ObjectStore) upload.ObjectStore {
	if store == nil {
		return nil
	}
	return store
}
