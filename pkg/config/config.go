// Package config loads agrikit settings from TOML.
//
// Every field has a default (see [Default]); a config file only needs to name
// what it changes:
//
//	[cache]
//	session_capacity = 256
//
//	[store]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[undo.secret_fields]
//	user = ["password_hash"]
//	api_client = ["client_secret"]
//
// [Load] decodes, rejects unknown keys, and validates with struct tags.
package config

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/agrikit/pkg/errors"
)

// Config is the complete agrikit configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Cache    CacheConfig    `toml:"cache"`
	Undo     UndoConfig     `toml:"undo"`
	Store    StoreConfig    `toml:"store"`
	Topology TopologyConfig `toml:"topology"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// LogConfig controls the charmbracelet logger.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// CacheConfig sizes the shared caches.
type CacheConfig struct {
	UserBuckets          int `toml:"user_buckets" validate:"gte=1,lte=100000"`
	NotificationCapacity int `toml:"notification_capacity" validate:"gte=1"`
	SessionCapacity      int `toml:"session_capacity" validate:"gte=1"`
	RecentLimit          int `toml:"recent_limit" validate:"gte=1"`
}

// UndoConfig configures the admin undo log.
type UndoConfig struct {
	// SecretFields maps entity types to fields restored as placeholders.
	SecretFields map[string][]string `toml:"secret_fields" validate:"dive,keys,entitytype,endkeys,dive,required"`
}

// StoreConfig selects the entity store undo writes to.
type StoreConfig struct {
	Backend   string `toml:"backend" validate:"oneof=memory redis"`
	RedisURL  string `toml:"redis_url" validate:"omitempty,url"`
	KeyPrefix string `toml:"key_prefix" validate:"required,alphanum"`
}

// TopologyConfig seeds the network graph at startup. File and Edges may be
// combined; File is loaded first.
type TopologyConfig struct {
	File  string       `toml:"file,omitempty"`
	Edges []EdgeConfig `toml:"edges,omitempty" validate:"dive"`
}

// EdgeConfig is one seeded link.
type EdgeConfig struct {
	From   string  `toml:"from" validate:"required"`
	To     string  `toml:"to" validate:"required"`
	Weight float64 `toml:"weight" validate:"gte=0"`
}

// MetricsConfig toggles the Prometheus hooks.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Cache: CacheConfig{
			UserBuckets:          100,
			NotificationCapacity: 50,
			SessionCapacity:      128,
			RecentLimit:          10,
		},
		Undo: UndoConfig{
			SecretFields: map[string][]string{"user": {"password_hash"}},
		},
		Store: StoreConfig{
			Backend:   "memory",
			KeyPrefix: "agrikit",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text over the defaults and validates the result.
// Keys that do not map to a field are rejected.
func Parse(text string) (Config, error) {
	cfg := Default()
	// Tables named in the file replace the default map rather than merge.
	cfg.Undo.SecretFields = nil
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("undo", "secret_fields") {
		cfg.Undo.SecretFields = Default().Undo.SecretFields
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags and cross-field rules.
func (c Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", describe(err))
	}
	if c.Store.Backend == "redis" && c.Store.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.redis_url is required for the redis backend")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode() (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return sb.String(), nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("entitytype", func(fl validator.FieldLevel) bool {
			return errors.ValidateEntityType(fl.Field().String()) == nil
		})
	})
	return validate
}

// describe flattens validator errors into "field: rule" messages.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", ")))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "entitytype":
			msgs = append(msgs, fmt.Sprintf("%s is not a valid entity type", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, e.Tag()))
		}
	}
	slices.Sort(msgs)
	return strings.Join(msgs, "; ")
}
