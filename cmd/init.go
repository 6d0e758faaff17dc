package main

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"dashboard/internal/auth"
	"dashboard/internal/config"
	httpapi "dashboard/internal/http"
	"dashboard/internal/lock"
	"dashboard/internal/logger"
	"dashboard/internal/repository"
	"dashboard/internal/service"
	"dashboard/internal/storage"
)

// closer освобождает ресурсы бэкенда при остановке
type closer func(ctx context.Context) error

func newFirebaseApp(ctx context.Context, cfg *config.Configuration) (*firebase.App, error) {
	if !cfg.UsesFirebase() {
		return nil, nil
	}
	fbCfg := &firebase.Config{ProjectID: cfg.FirebaseProjectID, StorageBucket: cfg.FirebaseStorageBucket}
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsPath))
	}
	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Configuration, app *firebase.App) (repository.DocumentStore, closer, error) {
	switch cfg.StoreBackend {
	case "mongo":
		s, err := repository.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "firestore":
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		s := repository.NewFirestoreStore(client)
		return s, func(context.Context) error { return s.Close() }, nil
	default:
		return repository.NewMemoryStore(), func(context.Context) error { return nil }, nil
	}
}

func newAuthProvider(ctx context.Context, cfg *config.Configuration, app *firebase.App) (auth.Provider, error) {
	if cfg.AuthProvider != "firebase" {
		return auth.NewLocal(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTTTL), nil
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return auth.NewFirebase(client, cfg.FirebaseAPIKey), nil
}

// newBlobStore возвращает хранилище файлов и каталог для раздачи (только для local)
func newBlobStore(ctx context.Context, cfg *config.Configuration, app *firebase.App) (storage.BlobStore, string, error) {
	if cfg.BlobBackend != "firebase" {
		return storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL), cfg.UploadDir, nil
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("firebase storage client: %w", err)
	}
	bucket, err := client.Bucket(cfg.FirebaseStorageBucket)
	if err != nil {
		return nil, "", fmt.Errorf("storage bucket: %w", err)
	}
	return storage.NewFirebase(bucket, cfg.FirebaseStorageBucket), "", nil
}

func newLocker(ctx context.Context, cfg *config.Configuration) (lock.Locker, closer, error) {
	if cfg.LockBackend != "redis" {
		return lock.NewMemory(cfg.LockWait), func(context.Context) error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return lock.NewRedis(client, cfg.LockTTL, cfg.LockWait), func(context.Context) error { return client.Close() }, nil
}

func policies(cfg *config.Configuration) service.Policies {
	return service.Policies{
		Collision:   service.CollisionPolicy(cfg.RenameCollision),
		References:  service.ReferencePolicy(cfg.ReferencePolicy),
		WriteMode:   service.WriteMode(cfg.WriteMode),
		SyncRetries: cfg.SyncRetries,
	}
}

func newServices(store repository.DocumentStore, locks lock.Locker, p service.Policies) httpapi.Services {
	logger.GetAppLogger().WithFields(logrus.Fields{
		"collision":  p.Collision,
		"references": p.References,
		"write_mode": p.WriteMode,
		"retries":    p.SyncRetries,
	}).Info("write policies")
	return httpapi.Services{
		Categories:  service.NewCategoryService(store, locks, p),
		Products:    service.NewProductService(store),
		Brands:      service.NewBrandService(store),
		Colors:      service.NewColorService(store, locks, p),
		Orders:      service.NewOrderService(store),
		PromoImages: service.NewPromoImageService(store),
		SocialLinks: service.NewSocialLinkService(store),
		Stats:       service.NewStatsService(store),
	}
}
