package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	DefaultValidatorAPIURL   = "https://api.frax.finance/v2/frxeth/validators"
	DefaultSafeClientURL     = "https://safe-client.safe.global"
	DefaultChainID           = 1
	DefaultSafeAddress       = "0x8306300ffd616049FD7e4b0354a64Da835c1A81C"
	DefaultExpectedToAddress = "0xbAFA44EFE7901E04E39Dad13167D089C559c1138"
	DefaultTargetMethod      = "addValidators"
	DefaultArrayParam        = "validatorArray"
	DefaultExpectedStatus    = "uninitialized"
)

const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var hexAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

type Config struct {
	ValidatorAPIURL   string
	SafeClientURL     string
	ChainID           uint64
	SafeAddress       string
	ExpectedToAddress string
	TargetMethod      string
	ArrayParam        string
	ExpectedStatus    string
	HTTPTimeout       time.Duration
	LogLevel          string
	LogFile           string
	LogMaxSizeMB      int
	LogMaxBackups     int
	LogRotateOnStart  bool
	NoColor           bool
	OtelEndpoint      string
}

type EnvSource interface {
	Lookup(key string) (string, bool)
}

type EnvMap map[string]string

func (e EnvMap) Lookup(key string) (string, bool) {
	value, ok := e[key]
	return value, ok
}

func FromEnviron() EnvSource {
	env := make(EnvMap)
	for _, entry := range os.Environ() {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		env[parts[0]] = parts[1]
	}
	return env
}

func Load(source EnvSource) (Config, error) {
	if source == nil {
		return Config{}, errors.New("env source is required")
	}

	chainID, err := parseUintEnv(source, "CHAIN_ID", DefaultChainID)
	if err != nil {
		return Config{}, err
	}
	logMaxSize, err := parseUintEnv(source, "LOG_MAX_SIZE_MB", 100)
	if err != nil {
		return Config{}, err
	}
	logMaxBackups, err := parseUintEnv(source, "LOG_MAX_BACKUPS", 3)
	if err != nil {
		return Config{}, err
	}

	logRotateOnStart, err := parseBoolEnv(source, "LOG_ROTATE_ON_START")
	if err != nil {
		return Config{}, err
	}

	var httpTimeout time.Duration
	if raw, ok := source.Lookup("HTTP_TIMEOUT"); ok && strings.TrimSpace(raw) != "" {
		duration, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
		httpTimeout = duration
	}

	noColor := false
	if raw, ok := source.Lookup("NO_COLOR"); ok && strings.TrimSpace(raw) != "" {
		noColor = true
	}

	otelEndpoint, _ := source.Lookup("OTEL_EXPORTER_OTLP_ENDPOINT")
	logFile, _ := source.Lookup("LOG_FILE")

	cfg := Config{
		ValidatorAPIURL:   stringEnv(source, "VALIDATOR_API_URL", DefaultValidatorAPIURL),
		SafeClientURL:     strings.TrimRight(stringEnv(source, "SAFE_CLIENT_URL", DefaultSafeClientURL), "/"),
		ChainID:           chainID,
		SafeAddress:       stringEnv(source, "SAFE_ADDRESS", DefaultSafeAddress),
		ExpectedToAddress: stringEnv(source, "EXPECTED_TO_ADDRESS", DefaultExpectedToAddress),
		TargetMethod:      stringEnv(source, "TARGET_METHOD", DefaultTargetMethod),
		ArrayParam:        stringEnv(source, "VALIDATOR_ARRAY_PARAM", DefaultArrayParam),
		ExpectedStatus:    stringEnv(source, "EXPECTED_STATUS", DefaultExpectedStatus),
		HTTPTimeout:       httpTimeout,
		LogLevel:          strings.ToLower(stringEnv(source, "LOG_LEVEL", LogLevelInfo)),
		LogFile:           strings.TrimSpace(logFile),
		LogMaxSizeMB:      int(logMaxSize),
		LogMaxBackups:     int(logMaxBackups),
		LogRotateOnStart:  logRotateOnStart,
		NoColor:           noColor,
		OtelEndpoint:      strings.TrimSpace(otelEndpoint),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ValidatorAPIURL, validation.Required, is.URL, validation.By(validateHTTPURL)),
		validation.Field(&c.SafeClientURL, validation.Required, is.URL, validation.By(validateHTTPURL)),
		validation.Field(&c.ChainID, validation.Required, validation.Min(uint64(1))),
		validation.Field(&c.SafeAddress, validation.Required, validation.Match(hexAddress).Error("must be a 0x-prefixed 20 byte hex address")),
		validation.Field(&c.ExpectedToAddress, validation.Required, validation.Match(hexAddress).Error("must be a 0x-prefixed 20 byte hex address")),
		validation.Field(&c.TargetMethod, validation.Required),
		validation.Field(&c.ArrayParam, validation.Required),
		validation.Field(&c.ExpectedStatus, validation.Required),
		validation.Field(&c.HTTPTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.LogLevel, validation.Required, validation.In(LogLevelInfo, LogLevelWarn, LogLevelError)),
	)
}

func validateHTTPURL(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}
	return nil
}

func stringEnv(source EnvSource, key string, defaultValue string) string {
	raw, ok := source.Lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	return strings.TrimSpace(raw)
}

func parseUintEnv(source EnvSource, key string, defaultValue uint64) (uint64, error) {
	raw, ok := source.Lookup(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func parseBoolEnv(source EnvSource, key string) (bool, error) {
	raw, ok := source.Lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
