package config

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var durationType = reflect.TypeOf(time.Duration(0))

// decodeSettings copies file and environment settings onto cfg through the
// mapstructure tags on Config. Keys that are absent keep cfg's defaults.
func decodeSettings(v *viper.Viper, cfg *Config) error {
	hook := mapstructure.ComposeDecodeHookFunc(
		secondsToDuration,
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := v.Unmarshal(cfg, viper.DecodeHook(hook)); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	normalizeSettings(cfg)
	return nil
}

// secondsToDuration reads a bare number such as `timeout: 5` as seconds.
func secondsToDuration(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != durationType {
		return data, nil
	}
	val := reflect.ValueOf(data)
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(val.Int()) * time.Second, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(val.Uint()) * time.Second, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(val.Float() * float64(time.Second)), nil
	default:
		return data, nil
	}
}

// normalizeSettings trims and lower-cases enumerated values and canonicalises
// header keys, which viper hands over lower-cased.
func normalizeSettings(cfg *Config) {
	cfg.Format = OutputFormat(strings.ToLower(strings.TrimSpace(string(cfg.Format))))
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	cfg.OutputFile = strings.TrimSpace(cfg.OutputFile)
	cfg.HTMLOutput = strings.TrimSpace(cfg.HTMLOutput)

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[http.CanonicalHeaderKey(strings.TrimSpace(k))] = v
	}
	cfg.Headers = headers

	t := &cfg.Tracing
	t.Endpoint = strings.TrimSpace(t.Endpoint)
	t.ServiceName = strings.TrimSpace(t.ServiceName)
	t.Protocol = strings.ToLower(strings.TrimSpace(t.Protocol))
	if t.Protocol == "" {
		t.Protocol = "grpc"
	}
}
