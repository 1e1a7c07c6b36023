package toml

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, path string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set(ProfilesPathKey, path)
	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))
	loginAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	work := domain.Profile{Name: "work", BaseURL: "https://admin.example.com/api", Email: "alice@example.com", LastLoginAt: loginAt}
	local := domain.Profile{Name: "default", BaseURL: "http://127.0.0.1:8000/api"}

	require.NoError(t, repo.Save(context.Background(), work))
	require.NoError(t, repo.Save(context.Background(), local))

	got, err := repo.GetByName(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, work, got)

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Profile{local, work}, profiles)
}

func TestRepositorySaveReplacesByName(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))

	require.NoError(t, repo.Save(context.Background(), domain.Profile{Name: "default", Email: "old@example.com"}))
	require.NoError(t, repo.Save(context.Background(), domain.Profile{Name: "default", Email: "new@example.com"}))

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "new@example.com", profiles[0].Email)
}

func TestRepositorySaveCreatesDirectoryAndEnforcesPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "profiles.toml")
	repo := newTestRepository(t, path)

	require.NoError(t, repo.Save(context.Background(), domain.Profile{Name: "default"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(profilesFileMode), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(profilesDirMode), dirInfo.Mode().Perm())
}

func TestRepositorySaveSerializedTOMLUsesProfilesTables(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	repo := newTestRepository(t, path)

	require.NoError(t, repo.Save(context.Background(), domain.Profile{
		Name:        "default",
		BaseURL:     "http://127.0.0.1:8000/api",
		LastLoginAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600)),
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "[[profiles]]")
	assert.Contains(t, string(data), "name = 'default'")
	assert.Contains(t, string(data), "last_login_at = '2026-03-01T09:00:00Z'")
	assert.NotContains(t, string(data), "email")
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing.toml"))

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)

	_, err = repo.GetByName(context.Background(), "default")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRepositoryRejectsInvalidProfileName(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))

	err := repo.Save(context.Background(), domain.Profile{Name: "../escape"})
	assert.ErrorContains(t, err, "invalid profile name")
}

func TestRepositoryMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[profiles]\nname = "), 0o600))
	repo := newTestRepository(t, path)

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "decode profiles file")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 2\n"), 0o600))
	repo := newTestRepository(t, path)

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "unsupported profiles schema version 2")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Save(ctx, domain.Profile{Name: "default"}), context.Canceled)
}

func TestRepositoryConcurrentSavesAcrossInstancesPreserveAllProfiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.toml")
	repoA := newTestRepository(t, path)
	repoB := newTestRepository(t, path)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	for prefix, repo := range map[string]*Repository{"a-": repoA, "b-": repoB} {
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < perRepoWrites; i++ {
				errCh <- repo.Save(context.Background(), domain.Profile{Name: prefix + strconv.Itoa(i)})
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	profiles, err := repoA.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, perRepoWrites*2)
}
