package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

const (
	defaultCurrency       = "USD"
	defaultRequestTimeout = 10 * time.Second
	defaultHTTPServerAddr = ":8080"
)

type TLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type Broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	InvalidationTopic  string   `mapstructure:"invalidation_topic"`
	TLS                TLS      `mapstructure:"tls"`
}

// Umbraco holds the upstream connection settings.
type Umbraco struct {
	BaseURL         string        `mapstructure:"base_url"`
	StoreAlias      string        `mapstructure:"store_alias"`
	ContentAPIKey   string        `mapstructure:"content_api_key"`
	CommerceAPIKey  string        `mapstructure:"commerce_api_key"`
	DefaultCurrency string        `mapstructure:"default_currency"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type Config struct {
	LogLevel           slog.Level `mapstructure:"log_level"`
	HTTPServerAddr     string     `mapstructure:"http_server_addr"`
	MetricsEnabled     bool       `mapstructure:"metrics_enabled"`
	RevalidationSecret string     `mapstructure:"revalidation_secret"`
	Umbraco            Umbraco    `mapstructure:"umbraco"`
	Broker             Broker     `mapstructure:"broker"`
}

// envBindings maps config keys to the environment variables the storefront
// deployment already uses.
var envBindings = map[string]string{
	"umbraco.base_url":         "UMBRACO_BASE_URL",
	"umbraco.store_alias":      "UMBRACO_COMMERCE_STORE_ALIAS",
	"umbraco.content_api_key":  "UMBRACO_CONTENT_API_KEY",
	"umbraco.commerce_api_key": "UMBRACO_COMMERCE_API_KEY",
	"revalidation_secret":      "REVALIDATION_SECRET",
}

func Load() Config {
	loadDotEnv()

	v := viper.New()
	v.SetConfigFile(getConfigFilepath())

	cfg, err := load(v)
	if err != nil {
		die(err)
	}
	return cfg
}

func load(v *viper.Viper) (Config, error) {
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return Config{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg, decodeHook()); err != nil {
		return Config{}, err
	}

	cfg.Umbraco.BaseURL = strings.TrimRight(cfg.Umbraco.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "INFO")
	v.SetDefault("http_server_addr", defaultHTTPServerAddr)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("umbraco.default_currency", defaultCurrency)
	v.SetDefault("umbraco.request_timeout", defaultRequestTimeout)
}

func bindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

func loadDotEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("failed to load .env file: %v\n", err)
	}
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

func (c Config) Validate() error {
	var errs []error

	required := []struct {
		key, value string
	}{
		{"umbraco.base_url", c.Umbraco.BaseURL},
		{"umbraco.store_alias", c.Umbraco.StoreAlias},
		{"umbraco.content_api_key", c.Umbraco.ContentAPIKey},
		{"umbraco.commerce_api_key", c.Umbraco.CommerceAPIKey},
		{"revalidation_secret", c.RevalidationSecret},
		{"broker.invalidation_topic", c.Broker.InvalidationTopic},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s: required", r.key))
		}
	}

	if len(c.Broker.SeedBrokers) == 0 {
		errs = append(errs, errors.New("broker.seed_brokers: required"))
	}

	return errors.Join(errs...)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	MetricsEnabled=%t
	RevalidationSecret=%q

	Umbraco:
	BaseURL=%q
	StoreAlias=%q
	ContentAPIKey=%q
	CommerceAPIKey=%q
	DefaultCurrency=%q
	RequestTimeout=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	InvalidationTopic=%q
	TLS=%t

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.MetricsEnabled,
		mask(c.RevalidationSecret),
		c.Umbraco.BaseURL,
		c.Umbraco.StoreAlias,
		mask(c.Umbraco.ContentAPIKey),
		mask(c.Umbraco.CommerceAPIKey),
		c.Umbraco.DefaultCurrency,
		c.Umbraco.RequestTimeout,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.InvalidationTopic,
		c.Broker.TLS.CA != "",
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "******"
}
