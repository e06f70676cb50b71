// Package backend opens the key/value store selected by configuration
package backend

import (
	"context"
	"fmt"

	"linguaquiz/internal/config"
	"linguaquiz/internal/db"
	"linguaquiz/internal/kv"
	"linguaquiz/internal/r2"

	"github.com/sirupsen/logrus"
)

// Open returns the configured store and a function releasing its resources
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (kv.Store, func(), error) {
	entry := log.WithField("backend", cfg.StorageBackend)
	noop := func() {}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		entry.Warn("Using in-memory storage; data is lost on restart")
		return kv.NewMemory(), noop, nil

	case config.BackendFile:
		store, err := kv.NewFile(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		entry.WithField("dir", cfg.StorageDir).Info("Using file storage")
		return store, noop, nil

	case config.BackendRedis:
		client, err := kv.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		entry.WithField("addr", cfg.RedisAddr).Info("Using redis storage")
		return kv.NewRedis(client, ""), func() { client.Close() }, nil

	case config.BackendPostgres:
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := db.NewBlobStore(database.Conn)
		if err := store.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		entry.Info("Using postgres storage")
		return store, func() { database.Close() }, nil

	case config.BackendR2:
		client, err := r2.NewClient(ctx, r2.Settings{
			AccountID:       cfg.R2AccountID,
			Bucket:          cfg.R2Bucket,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Prefix:          cfg.R2Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		entry.WithFields(logrus.Fields{"bucket": cfg.R2Bucket, "prefix": cfg.R2Prefix}).Info("Using R2 storage")
		return client, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
