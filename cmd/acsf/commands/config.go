package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
	"github.com/fivetwenty-io/acsf-client/pkg/acsfclient"
)

// Config represents the CLI configuration file.
type Config struct {
	Sitegroup   string `json:"sitegroup,omitempty"   yaml:"sitegroup,omitempty"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
	Username    string `json:"username,omitempty"    yaml:"username,omitempty"`
	APIKey      string `json:"api_key,omitempty"     yaml:"api_key,omitempty"`
	BaseURL     string `json:"base_url,omitempty"    yaml:"base_url,omitempty"`
	Output      string `json:"output,omitempty"      yaml:"output,omitempty"`

	// Transport tuning
	Timeout  string `json:"timeout,omitempty"   yaml:"timeout,omitempty"`
	RetryMax int    `json:"retry_max,omitempty" yaml:"retry_max,omitempty"`

	// Response cache for stacks and VCS refs
	CacheType  string `json:"cache_type,omitempty"  yaml:"cache_type,omitempty"`
	CacheTTL   string `json:"cache_ttl,omitempty"   yaml:"cache_ttl,omitempty"`
	NATSURL    string `json:"nats_url,omitempty"    yaml:"nats_url,omitempty"`
	NATSBucket string `json:"nats_bucket,omitempty" yaml:"nats_bucket,omitempty"`
}

// configKeys lists the keys accepted by "config set" and "config unset".
var configKeys = []string{
	"sitegroup", "environment", "username", "api_key", "base_url", "output",
	"timeout", "retry_max", "cache_type", "cache_ttl", "nats_url", "nats_bucket",
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage ACSF CLI configuration including credentials, factory and cache settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigLoginCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective CLI configuration with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.APIKey != "" {
				config.APIKey = maskSecret(config.APIKey)
			}

			w := cmd.OutOrStdout()

			done, err := encode(w, config)
			if done || err != nil {
				return err
			}

			rows := make([][]string, 0, len(configKeys))
			for _, key := range configKeys {
				rows = append(rows, []string{key, formatValue(configValue(config, key))})
			}

			return renderTable(w, []string{"Property", "Value"}, rows)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and save it to the config file. Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if err := setConfigValue(config, args[0], args[1]); err != nil {
				return err
			}

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if err := setConfigValue(config, args[0], ""); err != nil {
				return err
			}

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func newConfigLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store and verify credentials",
		Long:  "Prompt for missing credentials, verify them against the factory and save them",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if config.Username == "" {
				username, err := promptLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Username: ")
				if err != nil {
					return err
				}

				config.Username = username
			}

			if config.APIKey == "" {
				apiKey, err := promptSecret(cmd.ErrOrStderr(), "API key: ")
				if err != nil {
					return err
				}

				config.APIKey = apiKey
			}

			clientConfig, err := buildClientConfig(config, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if _, err := acsfclient.New(cmd.Context(), clientConfig); err != nil {
				return err
			}

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", factoryName(config), config.Username)

			return nil
		},
	}
}

// loadConfig reads the effective configuration from viper, which merges the
// config file, ACSF_* environment variables and flags.
func loadConfig() *Config {
	return &Config{
		Sitegroup:   viper.GetString("sitegroup"),
		Environment: viper.GetString("environment"),
		Username:    viper.GetString("username"),
		APIKey:      viper.GetString("api_key"),
		BaseURL:     viper.GetString("base_url"),
		Output:      viper.GetString("output"),
		Timeout:     viper.GetString("timeout"),
		RetryMax:    viper.GetInt("retry_max"),
		CacheType:   viper.GetString("cache_type"),
		CacheTTL:    viper.GetString("cache_ttl"),
		NATSURL:     viper.GetString("nats_url"),
		NATSBucket:  viper.GetString("nats_bucket"),
	}
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".acsf")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func configValue(config *Config, key string) any {
	switch key {
	case "sitegroup":
		return config.Sitegroup
	case "environment":
		return config.Environment
	case "username":
		return config.Username
	case "api_key":
		return config.APIKey
	case "base_url":
		return config.BaseURL
	case "output":
		return config.Output
	case "timeout":
		return config.Timeout
	case "retry_max":
		return config.RetryMax
	case "cache_type":
		return config.CacheType
	case "cache_ttl":
		return config.CacheTTL
	case "nats_url":
		return config.NATSURL
	case "nats_bucket":
		return config.NATSBucket
	default:
		return nil
	}
}

func setConfigValue(config *Config, key, value string) error {
	if !slices.Contains(configKeys, key) {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	switch key {
	case "sitegroup":
		config.Sitegroup = value
	case "environment":
		config.Environment = strings.ToLower(value)
	case "username":
		config.Username = value
	case "api_key":
		config.APIKey = value
	case "base_url":
		config.BaseURL = value
	case "output":
		config.Output = value
	case "timeout":
		if value != "" {
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout %q: %w", value, err)
			}
		}

		config.Timeout = value
	case "retry_max":
		retries := 0

		if value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 0 {
				return fmt.Errorf("invalid retry_max %q: %w", value, constants.ErrInvalidNumber)
			}

			retries = parsed
		}

		config.RetryMax = retries
	case "cache_type":
		config.CacheType = strings.ToLower(value)
	case "cache_ttl":
		config.CacheTTL = value
	case "nats_url":
		config.NATSURL = value
	case "nats_bucket":
		config.NATSBucket = value
	}

	return nil
}

// buildClientConfig turns the CLI configuration into a library config.
func buildClientConfig(config *Config, logOut io.Writer) (*acsf.Config, error) {
	if config.Username == "" {
		return nil, constants.ErrUsernameNotProvided
	}

	if config.APIKey == "" {
		return nil, constants.ErrAPIKeyNotProvided
	}

	clientConfig := &acsf.Config{
		Username:    config.Username,
		APIKey:      config.APIKey,
		Sitegroup:   config.Sitegroup,
		Environment: config.Environment,
		BaseURL:     config.BaseURL,
		RetryMax:    config.RetryMax,
		UserAgent:   "acsf-cli",
		Debug:       viper.GetBool("verbose"),
		Logger:      NewLogger(logOut, viper.GetBool("verbose")),
	}

	if config.Timeout != "" {
		timeout, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", config.Timeout, err)
		}

		clientConfig.HTTPTimeout = timeout
	}

	cache, err := buildCache(config)
	if err != nil {
		return nil, err
	}

	if chain, ok := cache.(*acsf.CacheChain); ok {
		chain.WithLogger(clientConfig.Logger)
	}

	clientConfig.Cache = cache

	return clientConfig, nil
}

func buildCache(config *Config) (acsf.Cache, error) {
	if config.CacheType == "" {
		return nil, nil //nolint:nilnil // no cache configured
	}

	cacheConfig := &acsf.CacheConfig{
		Type:   acsf.CacheType(config.CacheType),
		Memory: &acsf.MemoryCacheConfig{TTL: config.CacheTTL},
	}

	if cacheConfig.Type == acsf.CacheTypeNATS || cacheConfig.Type == acsf.CacheTypeTiered {
		natsConfig := &acsf.NATSKVConfig{URL: config.NATSURL, Bucket: config.NATSBucket}
		if natsConfig.Bucket == "" {
			natsConfig.Bucket = "acsf-cache"
		}

		if config.CacheTTL != "" {
			ttl, err := time.ParseDuration(config.CacheTTL)
			if err != nil {
				return nil, fmt.Errorf("invalid cache_ttl %q: %w", config.CacheTTL, err)
			}

			natsConfig.TTL = ttl
		}

		cacheConfig.NATS = natsConfig
	}

	cache, err := acsf.NewCacheFromConfig(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	if closer, ok := cache.(io.Closer); ok {
		trackCache(closer)
	}

	return cache, nil
}

var (
	openCachesMu sync.Mutex
	openCaches   []io.Closer
)

func trackCache(closer io.Closer) {
	openCachesMu.Lock()
	defer openCachesMu.Unlock()

	openCaches = append(openCaches, closer)
}

// CloseCaches closes the cache connections opened by commands in this process.
func CloseCaches() error {
	openCachesMu.Lock()
	closers := openCaches
	openCaches = nil
	openCachesMu.Unlock()

	var errs []error
	for _, closer := range closers {
		errs = append(errs, closer.Close())
	}

	return errors.Join(errs...)
}

// newClient builds a client from the effective configuration, prompting for
// the API key when it is missing and stdin is a terminal.
func newClient(ctx context.Context, cmd *cobra.Command) (acsf.Client, error) {
	config := loadConfig()

	if config.APIKey == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		apiKey, err := promptSecret(cmd.ErrOrStderr(), "API key: ")
		if err != nil {
			return nil, err
		}

		config.APIKey = apiKey
	}

	clientConfig, err := buildClientConfig(config, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	// Commands fail on the first real call; no separate ping.
	clientConfig.SkipConnectivityCheck = true

	return acsfclient.New(ctx, clientConfig)
}

func promptLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func promptSecret(out io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotInteractive
	}

	_, _ = fmt.Fprint(out, prompt)

	secret, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

func maskSecret(secret string) string {
	const visible = 4

	if len(secret) <= visible {
		return strings.Repeat("*", len(secret))
	}

	return strings.Repeat("*", len(secret)-visible) + secret[len(secret)-visible:]
}

func factoryName(config *Config) string {
	if config.BaseURL != "" {
		return config.BaseURL
	}

	if config.Environment == "" || config.Environment == constants.ProductionEnvironment {
		return config.Sitegroup
	}

	return config.Environment + "-" + config.Sitegroup
}
