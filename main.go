// Package main provides the entry point for the ttsdeck CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/ttsdeck/internal/api"
	"github.com/dgnsrekt/ttsdeck/internal/audio"
	"github.com/dgnsrekt/ttsdeck/internal/sync"
	"github.com/dgnsrekt/ttsdeck/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	serverURL  string
	timeout    time.Duration
	transport  string
	noAudio    bool

	rootCmd = &cobra.Command{
		Use:   "ttsdeck",
		Short: "Track text-to-speech jobs from your terminal",
		Long: paragraph(
			fmt.Sprintf("\nSubmit text to a TTS server and %s as jobs move from pending to playable audio.", keyword("watch live")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(*cobra.Command) error {
	// grab config values from Viper
	serverURL = viper.GetString("server")
	timeout = viper.GetDuration("timeout")
	transport = viper.GetString("transport")

	if transport != "poll" && transport != "push" {
		return fmt.Errorf("unknown transport %q: use 'poll' or 'push'", transport)
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", timeout)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("ttsdeck needs a terminal to run")
	}
	return nil
}

func execute(*cobra.Command, []string) error {
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	cfg.ServerURL = serverURL
	cfg.Transport = transport

	// Config file values win over the env-tag defaults.
	if v := viper.GetString("voice"); v != "" {
		cfg.Voice = v
	}
	if v := viper.GetFloat64("pitch"); v != 0 {
		cfg.Pitch = v
	}
	if v := viper.GetFloat64("speed"); v != 0 {
		cfg.Speed = v
	}
	if v := viper.GetFloat64("volume"); v != 0 {
		cfg.Volume = v
	}
	if v := viper.GetInt("max_text_length"); v > 0 {
		cfg.MaxTextLength = v
	}

	apiCfg := api.DefaultConfig()
	apiCfg.BaseURL = cfg.ServerURL
	apiCfg.Timeout = timeout
	client := api.NewClient(apiCfg)

	engCfg := sync.DefaultConfig()
	engCfg.MaxTextLength = cfg.MaxTextLength
	if dir := viper.GetString("audio_dir"); dir != "" {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return fmt.Errorf("unable to expand audio_dir: %w", err)
		}
		if err := os.MkdirAll(expanded, 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("unable to create audio_dir: %w", err)
		}
		engCfg.AudioDir = expanded
	}
	engine := sync.New(client, engCfg)
	engine.Start()
	defer engine.Close()

	if cfg.Transport == "push" {
		listener, err := api.NewPushListener(cfg.ServerURL, engine)
		if err != nil {
			return fmt.Errorf("unable to create push listener: %w", err)
		}
		pushCtx, cancelPush := context.WithCancel(context.Background())
		defer cancelPush()
		go listener.Listen(pushCtx)
	}

	var player audio.Player
	if cfg.EnablePlayback && !noAudio {
		player = audio.NewOtoPlayer()
		defer player.Close() //nolint:errcheck
	}

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, engine, player).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:8000", "TTS server base URL")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout for API calls")
	rootCmd.Flags().StringVarP(&transport, "transport", "t", "poll", "update transport: poll or push")
	rootCmd.Flags().BoolVar(&noAudio, "no-audio", false, "disable local audio playback")

	// Config bindings
	_ = viper.BindPFlag("server", rootCmd.Flags().Lookup("server"))
	_ = viper.BindPFlag("timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("transport", rootCmd.Flags().Lookup("transport"))

	viper.SetDefault("server", "http://localhost:8000")
	viper.SetDefault("timeout", 10*time.Second)
	viper.SetDefault("transport", "poll")
	viper.SetDefault("audio_dir", "")
	viper.SetDefault("voice", "default")
	viper.SetDefault("pitch", 1.0)
	viper.SetDefault("speed", 1.0)
	viper.SetDefault("volume", 1.0)
	viper.SetDefault("max_text_length", 5000)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "ttsdeck")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "ttsdeck")}, dirs...)
	}

	if c := os.Getenv("TTSDECK_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("ttsdeck")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("ttsdeck")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "ttsdeck.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
