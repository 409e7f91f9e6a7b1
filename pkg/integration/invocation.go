// pkg/integration/invocation.go
package integration

import (
	"strings"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
)

// Positions in the argument vector integratord passes to a custom integration:
//
//	<program> <alert file> <api key> <hook url> [<options file>] [debug]
const (
	AlertIndex   = 1
	APIKeyIndex  = 2
	WebhookIndex = 3
	DebugIndex   = 4
	MinArgs      = 4
)

// OptionsSuffix is how integratord names the options file it writes
// (e.g. /tmp/slack-1234-5678.options). The first argument from DebugIndex on
// that ends with it is taken as the options file.
const OptionsSuffix = "options"

// DebugArg turns on debug mode when passed at DebugIndex.
const DebugArg = "debug"

// Invocation is the resolved configuration of one integration run.
type Invocation struct {
	Argv        []string
	AlertFile   string
	APIKey      string
	WebhookURL  string
	OptionsFile string
	Debug       bool
}

// ParseArgs resolves argv. An explicit options file or debug setting overrides
// what the positional convention finds.
func ParseArgs(argv []string, settings cli.Settings) (*Invocation, error) {
	if len(argv) < MinArgs {
		return nil, notify_err.NewBadArgumentsError(len(argv),
			"Usage: <alert file> <api key> <hook url> [options file] [debug]")
	}

	inv := &Invocation{
		Argv:        argv,
		AlertFile:   argv[AlertIndex],
		APIKey:      argv[APIKeyIndex],
		WebhookURL:  argv[WebhookIndex],
		OptionsFile: findOptionsFile(argv),
		Debug:       len(argv) > DebugIndex && argv[DebugIndex] == DebugArg,
	}
	if settings.OptionsFile != "" {
		inv.OptionsFile = settings.OptionsFile
	}
	if settings.Debug {
		inv.Debug = true
	}
	return inv, nil
}

func findOptionsFile(argv []string) string {
	for _, arg := range argv[DebugIndex:] {
		if strings.HasSuffix(arg, OptionsSuffix) {
			return arg
		}
	}
	return ""
}

// InvocationLine is the line logged for every run: argv[1..5] separated by
// spaces, or "Wrong arguments" when argv is too short.
func InvocationLine(argv []string) string {
	if len(argv) < MinArgs {
		return "Wrong arguments"
	}
	slots := make([]string, 5)
	copy(slots, argv[1:])
	return strings.TrimRight(strings.Join(slots, " "), " ")
}
