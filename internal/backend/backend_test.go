package backend

import (
	"context"
	"io"
	"testing"

	"linguaquiz/internal/config"
	"linguaquiz/internal/kv"
	"linguaquiz/internal/r2"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		store, closeFn, err := Open(ctx, &config.Config{StorageBackend: config.BackendMemory}, quietLogger())
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &kv.Memory{}, store)
	})

	t.Run("File", func(t *testing.T) {
		dir := t.TempDir()
		store, closeFn, err := Open(ctx, &config.Config{StorageBackend: config.BackendFile, StorageDir: dir}, quietLogger())
		require.NoError(t, err)
		defer closeFn()
		require.NoError(t, store.Set(ctx, "k", "v"))
		assert.FileExists(t, dir+"/k.json")
	})

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := Open(ctx, &config.Config{StorageBackend: "tape"}, quietLogger())
		assert.Error(t, err)
	})

	t.Run("R2MissingSettings", func(t *testing.T) {
		_, _, err := Open(ctx, &config.Config{StorageBackend: config.BackendR2}, quietLogger())
		assert.Error(t, err)
	})

	t.Run("R2", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		cfg := &config.Config{
			StorageBackend:    config.BackendR2,
			R2AccountID:       "acct",
			R2Bucket:          "quizzes",
			R2AccessKeyID:     "id",
			R2SecretAccessKey: "secret",
			R2Prefix:          "linguaquiz/",
		}
		store, closeFn, err := Open(ctx, cfg, log)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &r2.Client{}, store)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, "Using R2 storage", entry.Message)
		assert.Equal(t, "quizzes", entry.Data["bucket"])
		assert.Equal(t, "linguaquiz/", entry.Data["prefix"])
	})
}
