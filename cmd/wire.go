package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/admin-dashboard-cli/internal/adapters/api"
	tomlrepo "github.com/bnema/admin-dashboard-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/admin-dashboard-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/admin-dashboard-cli/internal/adapters/secrets/file"
	"github.com/bnema/admin-dashboard-cli/internal/application"
	"github.com/bnema/admin-dashboard-cli/internal/config"
	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/bnema/admin-dashboard-cli/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg      config.Config
	logger   *slog.Logger
	profile  domain.Profile
	profiles *tomlrepo.Repository
	secrets  ports.SecretStore
	client   *api.Client

	session   *application.SessionService
	tasks     *application.ResourceStore
	users     *application.ResourceStore
	roles     *application.RoleStore
	activity  *application.ActivityFeed
	dashboard *application.Dashboard

	guard *application.Guard
	now   func() time.Time
}

type wireOptions struct {
	home    string
	profile string
	apiURL  string
	stderr  io.Writer
}

func wireApp(ctx context.Context, opts wireOptions) (*app, error) {
	v, err := config.New(opts.home)
	if err != nil {
		return nil, err
	}
	if opts.profile != "" {
		v.Set(config.KeyProfile, opts.profile)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(opts.stderr, cfg.LogLevel)

	profiles, err := tomlrepo.NewRepository(profilesConfig(v))
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	profile, err := resolveProfile(ctx, profiles, cfg, opts.apiURL)
	if err != nil {
		return nil, err
	}

	secrets, err := newSecretStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	client := &api.Client{
		BaseURL:        profile.BaseURL,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.Timeout,
		Logger:         logger,
	}

	session := application.NewSessionService(application.SessionServiceConfig{
		Client:   client,
		Store:    secrets,
		Profile:  profile,
		Profiles: profiles,
		Clock:    ports.SystemClock{},
		Logger:   logger,
	})
	client.OnUnauthorized = session.HandleUnauthorized

	tasks := application.NewResourceStore(application.TasksResource, client, session, logger)
	users := application.NewResourceStore(application.UsersResource, client, session, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		profile:   profile,
		profiles:  profiles,
		secrets:   secrets,
		client:    client,
		session:   session,
		tasks:     tasks,
		users:     users,
		roles:     application.NewRoleStore(application.NewResourceStore(application.RolesResource, client, session, logger)),
		activity:  application.NewActivityFeed(client, session, cfg.ItemsPerPage, logger),
		dashboard: application.NewDashboard(users, tasks),
		now:       time.Now,
	}, nil
}

func profilesConfig(v *viper.Viper) *viper.Viper {
	repoCfg := viper.New()
	repoCfg.Set(tomlrepo.ProfilesPathKey, v.GetString(config.KeyProfilesPath))
	return repoCfg
}

// resolveProfile picks the API base URL: --api-url, then the stored
// profile's base_url, then api.base_url from config.
func resolveProfile(ctx context.Context, profiles ports.ProfileRepository, cfg config.Config, apiURL string) (domain.Profile, error) {
	profile := domain.Profile{Name: cfg.Profile}
	if err := profile.Validate(); err != nil {
		return domain.Profile{}, err
	}

	stored, err := profiles.GetByName(ctx, profile.Name)
	switch {
	case err == nil:
		profile = stored
	case !errors.Is(err, domain.ErrProfileNotFound):
		return domain.Profile{}, fmt.Errorf("load profile %q: %w", profile.Name, err)
	}

	switch {
	case apiURL != "":
		profile.BaseURL = apiURL
	case profile.BaseURL == "":
		profile.BaseURL = cfg.BaseURL
	}

	return profile, nil
}

func newSecretStore(cfg config.Config) (ports.SecretStore, error) {
	if cfg.SecretsBackend == config.BackendFile {
		return filestore.NewStore(cfg.SecretsDir()), nil
	}

	return chainstore.NewPassFirstWithFileFallback(cfg.PassPrefix, cfg.SecretsDir())
}
