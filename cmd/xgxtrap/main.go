// Command xgxtrap runs a sample fault inside a protected call and prints the
// stack captured at the raise site.
//
//	xgxtrap                      # raise an error, print it and its stack, exit 2
//	xgxtrap --fault nil          # nil pointer dereference instead
//	xgxtrap --strategy filter    # deferred-filter interception
//	XGXTRAP_MAX_DEPTH=4 xgxtrap  # any setting can come from the environment
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	xgxtrap "github.com/xgx-io/xgx-trap"
)

const exitCaught = 2

func main() {
	os.Exit(execute())
}

func execute() int {
	code := 0
	cmd := newRootCmd(&code)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", color.RedString(err.Error()))
		return 1
	}
	return code
}

func newRootCmd(exit *int) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "xgxtrap",
		Short:         "Capture the stack of a raised error before it unwinds",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			logger := newLogger(v.GetBool("verbose"))
			if v.GetBool("no-color") || !isTerminal(os.Stderr) {
				color.NoColor = true
			}
			opts = append(opts, xgxtrap.WithLogger(logger))

			code, err := runSample(cmd.Context(), sampleParams{
				fault:    v.GetString("fault"),
				message:  v.GetString("message"),
				crashLog: v.GetString("crash-log"),
				stderr:   cmd.ErrOrStderr(),
				color:    !color.NoColor,
			}, opts...)
			if err != nil {
				return err
			}
			*exit = code
			return nil
		},
	}

	f := cmd.Flags()
	def := xgxtrap.DefaultConfig()
	f.String("config", "", "config file (yaml, toml or json)")
	f.String("strategy", def.Strategy, "interception strategy: probe or filter")
	f.String("walker", def.Walker, "stack walker: callers or frames")
	f.String("retrieval", def.Retrieval, "payload retrieval: duplicate or borrow")
	f.Int("max-depth", def.MaxDepth, "maximum number of captured frames")
	f.Int("walk-limit", def.WalkLimit, "maximum number of frames walked")
	f.String("fault", faultRaise, "sample fault: raise, nil, index or value")
	f.String("message", defaultMessage, "message of the raised error")
	f.String("crash-log", "", "also write the report to this file")
	f.Bool("no-color", false, "disable colored output")
	f.BoolP("verbose", "v", false, "log interception diagnostics")

	for _, key := range []string{"strategy", "walker", "retrieval", "fault", "message", "crash-log", "no-color", "verbose"} {
		_ = v.BindPFlag(key, f.Lookup(key))
	}
	_ = v.BindPFlag("max_depth", f.Lookup("max-depth"))
	_ = v.BindPFlag("walk_limit", f.Lookup("walk-limit"))
	_ = v.BindPFlag("config", f.Lookup("config"))
	_ = v.BindEnv("no-color", "NO_COLOR")

	v.SetEnvPrefix("xgxtrap")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

// loadConfig merges the optional config file under flags and environment.
func loadConfig(v *viper.Viper) (xgxtrap.Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return xgxtrap.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}
	var cfg xgxtrap.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return xgxtrap.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !isTerminal(os.Stderr)}).
		Level(level).
		With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
