package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/internal/github"
	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// MinSyncInterval keeps a scheduled cycle from starting more often than the
// quota can sustain.
const MinSyncInterval = 6 * time.Minute

type Config struct {
	GitHubToken       string        `envconfig:"GITHUB_TOKEN"`
	GitHubAPIURL      string        `envconfig:"GITHUB_API_URL" default:"https://api.github.com" validate:"required,url"`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"12s" validate:"gt=0"`
	RequestsPerMinute int           `envconfig:"REQUESTS_PER_MINUTE" default:"0" validate:"gte=0"`
	DBURL             string        `envconfig:"DB_PATH" validate:"required"`
	SyncInterval      time.Duration `envconfig:"SYNC_INTERVAL" default:"1h"`
	Repositories      string        `envconfig:"REPOSITORIES"`
	RabbitMQURL       string        `envconfig:"RABBITMQ_URL" validate:"omitempty,url"`
	RedisURL          string        `envconfig:"REDIS_URL" validate:"omitempty,url"`
	BlobCacheSize     int           `envconfig:"BLOB_CACHE_SIZE" default:"0" validate:"gte=0"`
	ServerPort        string        `envconfig:"SERVER_PORT" default:":8081" validate:"required"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Targets []models.Target `ignored:"true"`
}

var validate = validator.New()

// * LoadConfiguration reads the .env file (if any), decodes the environment
// * and returns a validated Config
func LoadConfiguration() (*Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := validate.Struct(&cfg); err != nil {
		return nil, describeValidation(err)
	}

	if cfg.SyncInterval < MinSyncInterval {
		logger.Warn("SYNC_INTERVAL %s is below %s; using %s", cfg.SyncInterval, MinSyncInterval, MinSyncInterval)
		cfg.SyncInterval = MinSyncInterval
	}

	targets, err := ParseRepositories(cfg.Repositories)
	if err != nil {
		return nil, err
	}
	cfg.Targets = targets

	logger.Info("✅ env content loaded successfully, %d repositories on the watch list", len(targets))
	return &cfg, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// * ParseRepositories splits a comma separated watch list. Each item is either
// * "team=url" or a bare url; a bare url is keyed by its owner/repo.
func ParseRepositories(list string) ([]models.Target, error) {
	var targets []models.Target
	seen := make(map[models.Target]struct{})

	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		// * a key holding "/" or ":" is part of a bare url, as in ?tab=readme
		team, repoURL := "", item
		if k, v, ok := strings.Cut(item, "="); ok && !strings.ContainsAny(k, "/:") {
			team, repoURL = strings.TrimSpace(k), strings.TrimSpace(v)
		}

		owner, name, err := github.ParseRepoURL(repoURL)
		if err != nil {
			return nil, fmt.Errorf("repository %q: %w", item, err)
		}
		if team == "" {
			team = owner + "/" + name
		}

		t := models.Target{TeamKey: team, RepoURL: repoURL}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		targets = append(targets, t)
	}

	return targets, nil
}
