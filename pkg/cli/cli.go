// pkg/cli/cli.go
//
// Flag, environment and settings plumbing shared by every delphi-notify command.
// Flags are registered on the cobra command, bound into a per-invocation viper
// instance, and read back once into a Settings value.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. DELPHI_NOTIFY_LOG_FILE.
const EnvPrefix = "DELPHI_NOTIFY"

// Flag names shared between commands and Settings.
const (
	FlagLogFile       = "log-file"
	FlagDebug         = "debug"
	FlagTelemetryFile = "telemetry-file"
	FlagTimeout       = "timeout"
	FlagTLSCAFile     = "tls-ca-file"
	FlagOptions       = "options"
	FlagFormat        = "format"
)

// Settings is the resolved flag/env configuration for one invocation.
type Settings struct {
	LogFile       string
	Debug         bool
	TelemetryFile string
	Timeout       time.Duration
	TLSCAFile     string
	OptionsFile   string
}

// AddStringFlag adds a string flag and optionally marks as required.
// Env/Config are handled by Viper if you call BindFlagsToViper.
func AddStringFlag(cmd *cobra.Command, name, shorthand, def, help string, required bool) {
	cmd.Flags().StringP(name, shorthand, def, help)
	if required {
		if err := cmd.MarkFlagRequired(name); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to mark flag %s as required: %v\n", name, err)
		}
	}
}

// AddBoolFlag adds a boolean flag.
func AddBoolFlag(cmd *cobra.Command, name, shorthand string, def bool, help string) {
	cmd.Flags().BoolP(name, shorthand, def, help)
}

// AddIntFlag adds an int flag.
func AddIntFlag(cmd *cobra.Command, name, shorthand string, def int, help string) {
	cmd.Flags().IntP(name, shorthand, def, help)
}

// AddFloat64Flag adds a float64 flag.
func AddFloat64Flag(cmd *cobra.Command, name, shorthand string, def float64, help string) {
	cmd.Flags().Float64P(name, shorthand, def, help)
}

// AddPersistentFlags registers the flags every subcommand understands.
func AddPersistentFlags(cmd *cobra.Command, defaultLogFile string) {
	pf := cmd.PersistentFlags()
	pf.String(FlagLogFile, defaultLogFile, "Append-only log file")
	pf.Bool(FlagDebug, false, "Write step-by-step trace lines to the log file")
	pf.String(FlagTelemetryFile, "", "Write OpenTelemetry spans as JSON lines to this file")
	pf.Duration(FlagTimeout, 0, "HTTP timeout for the webhook POST (0 keeps the client default)")
	pf.String(FlagTLSCAFile, "", "PEM bundle used to verify the webhook's TLS certificate")
}

// BindFlagsToViper binds all flags on a command to a Viper instance.
func BindFlagsToViper(cmd *cobra.Command, v *viper.Viper) error {
	var result error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}

// SetViperEnvPrefix lets Viper read env with prefix.
func SetViperEnvPrefix(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// LoadSettings binds cmd's flags into a fresh viper instance and resolves Settings.
func LoadSettings(cmd *cobra.Command) (Settings, error) {
	v := viper.New()
	SetViperEnvPrefix(v, EnvPrefix)
	if err := BindFlagsToViper(cmd, v); err != nil {
		return Settings{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	return Settings{
		LogFile:       v.GetString(FlagLogFile),
		Debug:         v.GetBool(FlagDebug),
		TelemetryFile: v.GetString(FlagTelemetryFile),
		Timeout:       v.GetDuration(FlagTimeout),
		TLSCAFile:     v.GetString(FlagTLSCAFile),
		OptionsFile:   v.GetString(FlagOptions),
	}, nil
}

// GetStringOrEmpty returns the string value or empty string if error.
func GetStringOrEmpty(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// GetRequiredString returns an error when the flag is missing or empty.
func GetRequiredString(cmd *cobra.Command, name string) (string, error) {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("flag error for --%s: %w", name, err)
	}
	if val == "" {
		return "", fmt.Errorf("required flag --%s is empty", name)
	}
	return val, nil
}
