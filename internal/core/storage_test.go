// AngelaMos | 2026
// storage_test.go

package core_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/config"
	"github.com/circlepicks/backend/internal/core"
)

func newTestStorage(t *testing.T) *core.ObjectStorage {
	t.Helper()

	endpoint := os.Getenv("TEST_STORAGE_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_STORAGE_ENDPOINT not set")
	}

	storage, err := core.NewObjectStorage(config.StorageConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("TEST_STORAGE_ACCESS_KEY"),
		SecretKey: os.Getenv("TEST_STORAGE_SECRET_KEY"),
		PublicURL: "http://" + endpoint,
	})
	require.NoError(t, err)
	return storage
}

func TestEnsureBuckets_CreatesOnceAndAcceptsExisting(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	bucket := "cp-test-" + uuid.NewString()[:8]

	require.NoError(t, storage.EnsureBuckets(ctx, bucket))
	require.NoError(t, storage.EnsureBuckets(ctx, bucket))

	url, err := storage.Put(ctx, bucket, "hello.txt", strings.NewReader("ok"), 2, "text/plain")
	require.NoError(t, err)
	require.Contains(t, url, "/"+bucket+"/")
}
