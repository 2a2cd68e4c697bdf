package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files, environment and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// envPrefix scopes environment overrides, e.g. SWEEPFIRE_TIMEOUT=2s.
const envPrefix = "SWEEPFIRE"

var envKeys = []string{
	"request_count",
	"repeat_count",
	"timeout",
	"rate",
	"format",
	"output",
	"html_output",
	"dashboard",
	"progress",
	"log_errors",
	"log_level",
	"tracing.endpoint",
	"tracing.protocol",
	"tracing.insecure",
	"tracing.sample_rate",
	"tracing.service_name",
	"tracing.propagate",
}

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments, environment and configuration files to produce a Config.
// Positional arguments are method, url and the optional request and repeat counts.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	args, negatives := shieldNegativeCounts(cmd.Flags(), args)
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	positional := flagSet.Args()
	for i, arg := range positional {
		if orig, ok := negatives[arg]; ok {
			positional[i] = orig
		}
	}
	if len(positional) < 2 || len(positional) > 4 {
		return nil, UsageError{Got: len(positional)}
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	cfgViper.SetEnvPrefix(envPrefix)
	cfgViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for _, key := range envKeys {
		if err := cfgViper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		RequestCount: DefaultRequestCount,
		RepeatCount:  DefaultRepeatCount,
		Headers:      map[string]string{},
		Format:       FormatJSON,
		LogLevel:     "warn",
		ConfigFile:   configPath,
		Tracing:      TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}

	if err := decodeSettings(cfgViper, cfg); err != nil {
		return nil, err
	}

	if err := applyPositional(cfg, positional); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}

	return cfg, nil
}

// applyPositional maps `method url [request_count [repeat_count]]` onto cfg.
// The url is kept verbatim.
func applyPositional(cfg *Config, args []string) error {
	cfg.Method = args[0]
	cfg.TargetURL = args[1]

	var issues []string
	if len(args) > 2 {
		n, err := strconv.Atoi(strings.TrimSpace(args[2]))
		if err != nil {
			issues = append(issues, fmt.Sprintf("request_count must be an integer, got %q", args[2]))
		} else {
			cfg.RequestCount = n
		}
	}
	if len(args) > 3 {
		n, err := strconv.Atoi(strings.TrimSpace(args[3]))
		if err != nil {
			issues = append(issues, fmt.Sprintf("repeat_count must be an integer, got %q", args[3]))
		} else {
			cfg.RepeatCount = n
		}
	}
	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

var negativeNumber = regexp.MustCompile(`^-\d+(\.\d*)?$`)

// shieldNegativeCounts swaps positional arguments such as "-5" for placeholders
// so pflag does not read them as shorthand flags. Values that belong to a
// preceding flag (`--rate -5`) are left alone. The returned map restores the
// original text after parsing.
func shieldNegativeCounts(fs *pflag.FlagSet, args []string) ([]string, map[string]string) {
	out := make([]string, 0, len(args))
	restore := map[string]string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if takesValue(fs, arg) && i+1 < len(args) {
			out = append(out, arg, args[i+1])
			i++
			continue
		}
		if negativeNumber.MatchString(arg) {
			placeholder := fmt.Sprintf("\x00neg%d", len(restore))
			restore[placeholder] = arg
			arg = placeholder
		}
		out = append(out, arg)
	}
	return out, restore
}

// takesValue reports whether arg is a flag that consumes the next argument.
func takesValue(fs *pflag.FlagSet, arg string) bool {
	var flag *pflag.Flag
	switch {
	case strings.HasPrefix(arg, "--"):
		if strings.Contains(arg, "=") {
			return false
		}
		flag = fs.Lookup(arg[2:])
	case len(arg) == 2 && arg[0] == '-':
		flag = fs.ShorthandLookup(arg[1:])
	}
	return flag != nil && flag.NoOptDefVal == ""
}
