package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/alexshd/randvar"
	"github.com/alexshd/randvar/calc"
	"github.com/alexshd/randvar/model"
)

var version = "dev"

// Settings are the values resolved from flags, RANDVAR_* environment
// variables and the config file, in that order of precedence.
type Settings struct {
	Model         string `mapstructure:"model"`
	Debug         bool   `mapstructure:"debug"`
	NoParentheses bool   `mapstructure:"no-parentheses"`
	Precision     int    `mapstructure:"precision"`
	Locale        string `mapstructure:"locale"`
}

// app carries state shared by the subcommands of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	settings Settings
	logger   *slog.Logger
	model    *model.Model
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "randvar",
		Short: "Algebra of discrete random variables",
		Long: `randvar combines finite discrete random variables.

Distributions are defined in a YAML model file and combined with + - * and **
in expressions such as "2*ksi + mu + 3". Expressions may call E, D, Cov, r,
Median, Quantile and P for statistics.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./.randvar.yaml)")
	flags.StringP("model", "m", "", "model file with the distributions")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("no-parentheses", false, "do not parenthesise derived names")
	flags.Int("precision", -1, "digits after the decimal point for probabilities (-1: shortest)")
	flags.String("locale", "en", "locale for numbers printed by stats")
	_ = a.v.BindPFlags(flags)

	cmd.AddCommand(newShowCommand(a))
	cmd.AddCommand(newEvalCommand(a))
	cmd.AddCommand(newStatsCommand(a))
	cmd.AddCommand(newLawsCommand(a))

	return cmd
}

// setup resolves settings and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".randvar")
	}

	a.v.SetEnvPrefix("RANDVAR")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := a.v.Unmarshal(&a.settings); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	if _, err := language.Parse(a.settings.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", a.settings.Locale, err)
	}

	a.logger = newLogger(cmd.ErrOrStderr(), a.settings.Debug)
	slog.SetDefault(a.logger)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "file", used)
	}
	return nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// algebra returns the float64 algebra configured by the settings.
func (a *app) algebra() *randvar.Algebra[float64] {
	return randvar.NewAlgebra[float64](randvar.Config{
		Parentheses: !a.settings.NoParentheses,
		Logger:      a.logger,
	})
}

// loadModel reads the model file once per invocation.
func (a *app) loadModel() (*model.Model, error) {
	if a.model != nil {
		return a.model, nil
	}
	if a.settings.Model == "" {
		return nil, errors.New("no model file: use --model or RANDVAR_MODEL")
	}

	m, err := model.Load(a.settings.Model)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded model", "file", a.settings.Model, "distributions", len(m.IDs()))
	a.model = m
	return m, nil
}

// evaluator builds an evaluator over the model, or over no variables when
// no model is configured.
func (a *app) evaluator() (*calc.Evaluator, error) {
	if a.settings.Model == "" {
		return calc.New(a.algebra(), nil), nil
	}
	m, err := a.loadModel()
	if err != nil {
		return nil, err
	}
	return calc.New(a.algebra(), m.Vars()), nil
}

func (a *app) renderOptions() randvar.RenderOptions {
	return randvar.RenderOptions{Precision: a.settings.Precision}
}
