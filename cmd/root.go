package cmd

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/vetbridge/vetbridge/internal/logger"
	"github.com/vetbridge/vetbridge/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "vetbridge"

	defaultMatchTimeout = 45 * time.Second
)

type Config struct {
	DataDir  string          `mapstructure:"data-dir"`
	AI       *AIConfig       `mapstructure:"ai"`
	Matching *MatchingConfig `mapstructure:"matching"`
}

type AIConfig struct {
	Provider              string        `mapstructure:"provider"`
	QualificationWeighted bool          `mapstructure:"qualification-weighted"`
	Gemini                *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type MatchingConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "vetbridge connects military veterans, mentors and employers around AI-scored job matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("data-dir", "VETBRIDGE_DATA_DIR"); err != nil {
		log.Fatalf("binding VETBRIDGE_DATA_DIR environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is vetbridge.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// The config file is only required when pointed at explicitly;
		// store-only commands work fine on defaults.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		config.DataDir = filepath.Join(home, "."+app)
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Matching.Timeout <= 0 {
		config.Matching.Timeout = defaultMatchTimeout
	}

	return config, nil
}

// session bundles the dependencies every command needs: the parsed
// config, the logger and the opened store.
type session struct {
	cfg    *Config
	logger *zap.Logger
	store  *store.Store
}

func newSession() *session {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	st, err := store.Open(cfg.DataDir, zl)
	if err != nil {
		zl.Fatal("opening the store", zap.Error(err), zap.String("data_dir", cfg.DataDir))
	}

	return &session{cfg: cfg, logger: zl, store: st}
}

// requireUser returns the session user, failing the command when nobody
// is logged in or the active role does not match.
func (s *session) requireUser(role store.Role) *store.User {
	user := s.store.CurrentUser()
	if user == nil {
		s.logger.Fatal("not logged in",
			zap.String("hint", "run 'vetbridge login' or 'vetbridge register' first"),
		)
	}
	if user.Role != role {
		s.logger.Fatal("command not available for the active role",
			zap.String("required_role", string(role)),
			zap.String("active_role", string(user.Role)),
		)
	}
	return user
}
