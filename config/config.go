package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "ECOM_CONFIG_FILE"

const (
	CatalogMemory = "memory"
	CatalogSQL    = "sql"

	StateBadger = "badger"
	StateRedis  = "redis"
)

type catalog struct {
	Source  string        `mapstructure:"source"`
	SQLDB   string        `mapstructure:"sql_db"`
	Latency time.Duration `mapstructure:"latency"`
}

type state struct {
	Backend        string        `mapstructure:"backend"`
	BadgerPath     string        `mapstructure:"badger_path"`
	BadgerInMemory bool          `mapstructure:"badger_in_memory"`
	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisDB        int           `mapstructure:"redis_db"`
	RedisTTL       time.Duration `mapstructure:"redis_ttl"`
	SessionsMax    int           `mapstructure:"sessions_max"`
	SessionIdleTTL time.Duration `mapstructure:"session_idle_ttl"`
}

type auth struct {
	Latency time.Duration `mapstructure:"latency"`
}

type contact struct {
	Latency time.Duration `mapstructure:"latency"`
}

type pricing struct {
	ShippingFee           float64 `mapstructure:"shipping_fee"`
	FreeShippingThreshold float64 `mapstructure:"free_shipping_threshold"`
	TaxRate               float64 `mapstructure:"tax_rate"`
	TaxBasis              string  `mapstructure:"tax_basis"`
	ItemsPerPage          int     `mapstructure:"items_per_page"`
}

type topics struct {
	Orders   string `mapstructure:"orders"`
	Activity string `mapstructure:"activity"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	PopularityGroup    string   `mapstructure:"popularity_group"`
	TLS                tlsFiles `mapstructure:"tls"`
}

// Enabled reports whether orders and activity go to Kafka.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

func (b broker) TLSEnabled() bool {
	return b.TLS.CA != "" && b.TLS.Cert != "" && b.TLS.Key != ""
}

type metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	LogLevel       slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr string        `mapstructure:"http_server_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Catalog        catalog       `mapstructure:"catalog"`
	State          state         `mapstructure:"state"`
	Auth           auth          `mapstructure:"auth"`
	Contact        contact       `mapstructure:"contact"`
	Pricing        pricing       `mapstructure:"pricing"`
	Broker         broker        `mapstructure:"broker"`
	Metrics        metrics       `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("request_timeout", "5s")
	v.SetDefault("catalog.source", CatalogMemory)
	v.SetDefault("state.backend", StateBadger)
	v.SetDefault("state.badger_in_memory", true)
	v.SetDefault("state.redis_ttl", "720h")
	v.SetDefault("state.sessions_max", 10000)
	v.SetDefault("state.session_idle_ttl", "30m")
	v.SetDefault("auth.latency", "1s")
	v.SetDefault("contact.latency", "1500ms")
	v.SetDefault("pricing.shipping_fee", 5.99)
	v.SetDefault("pricing.free_shipping_threshold", 50)
	v.SetDefault("pricing.tax_rate", 0.2)
	v.SetDefault("pricing.tax_basis", "after_discount")
	v.SetDefault("pricing.items_per_page", 12)
	v.SetDefault("broker.topics.orders", "storefront-orders")
	v.SetDefault("broker.topics.activity", "storefront-activity")
	v.SetDefault("broker.popularity_group", "storefront-popularity")
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads the YAML file at path over the defaults. Unknown keys are
// an error.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeHook adds text unmarshaling ("info" as slog.Level) to the viper
// defaults.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func (c Config) validate() error {
	var errs []error

	switch c.Catalog.Source {
	case CatalogMemory:
	case CatalogSQL:
		if c.Catalog.SQLDB == "" {
			errs = append(errs, errors.New("catalog.sql_db: required for sql source"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog.source: unknown %q", c.Catalog.Source))
	}

	switch c.State.Backend {
	case StateBadger:
		if !c.State.BadgerInMemory && c.State.BadgerPath == "" {
			errs = append(errs, errors.New("state.badger_path: required on disk"))
		}
	case StateRedis:
		if c.State.RedisAddr == "" {
			errs = append(errs, errors.New("state.redis_addr: required for redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("state.backend: unknown %q", c.State.Backend))
	}

	if c.State.SessionsMax <= 0 {
		errs = append(errs, errors.New("state.sessions_max: must be positive"))
	}
	if c.State.SessionIdleTTL <= 0 {
		errs = append(errs, errors.New("state.session_idle_ttl: must be positive"))
	}

	if c.Broker.Enabled() && len(c.Broker.SchemaRegistryURLs) == 0 {
		errs = append(errs, errors.New("broker.schema_registry_urls: required with seed_brokers"))
	}

	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	RequestTimeout=%s

	Catalog:
	Source=%q
	Latency=%s

	State:
	Backend=%q
	BadgerPath=%q
	BadgerInMemory=%t
	RedisAddr=%q
	RedisDB=%d
	SessionsMax=%d
	SessionIdleTTL=%s

	Auth:
	Latency=%s

	Contact:
	Latency=%s

	Pricing:
	ShippingFee=%.2f
	FreeShippingThreshold=%.2f
	TaxRate=%.2f
	TaxBasis=%q
	ItemsPerPage=%d

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		Orders=%q
		Activity=%q
	PopularityGroup=%q
	TLS=%t

	Metrics:
	Enabled=%t

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.RequestTimeout,
		c.Catalog.Source,
		c.Catalog.Latency,
		c.State.Backend,
		c.State.BadgerPath,
		c.State.BadgerInMemory,
		c.State.RedisAddr,
		c.State.RedisDB,
		c.State.SessionsMax,
		c.State.SessionIdleTTL,
		c.Auth.Latency,
		c.Contact.Latency,
		c.Pricing.ShippingFee,
		c.Pricing.FreeShippingThreshold,
		c.Pricing.TaxRate,
		c.Pricing.TaxBasis,
		c.Pricing.ItemsPerPage,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.Orders,
		c.Broker.Topics.Activity,
		c.Broker.PopularityGroup,
		c.Broker.TLSEnabled(),
		c.Metrics.Enabled,
	)
}
