package cmd

import (
	"log"

	"github.com/sourcingkit/sourcer/internal/evaluation"
	"github.com/sourcingkit/sourcer/internal/linkedin"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "sourcer"
)

type Config struct {
	Search    *linkedin.SearchParams `mapstructure:"search"`
	Job       *JobConfig             `mapstructure:"job"`
	Project   *ProjectConfig         `mapstructure:"project"`
	TokenFile string                 `mapstructure:"token-file"`
	UserAgent string                 `mapstructure:"user-agent"`
	StorePath string                 `mapstructure:"store-path"`

	TargetCandidates int `mapstructure:"target-candidates"`
	MaxRetries       int `mapstructure:"max-retries"`

	AI       *AIConfig       `mapstructure:"ai"`
	Outreach *OutreachConfig `mapstructure:"outreach"`
}

type JobConfig struct {
	Title        string `mapstructure:"title"`
	Company      string `mapstructure:"company"`
	Requirements string `mapstructure:"requirements"`
}

type ProjectConfig struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Campaign int    `mapstructure:"campaign"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OutreachConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Channel string `mapstructure:"channel"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "sourcer is a cli for sourcing candidates on a professional network and evaluating them against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "LINKEDIN_TOKEN_FILE"); err != nil {
		log.Fatalf("binding LINKEDIN_TOKEN_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is sourcer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the run and evaluate commands.
	if runCmd.CalledAs() == "" && evaluateCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

func (c *ProjectConfig) toMetadata() *evaluation.ProjectMetadata {
	if c == nil {
		return nil
	}
	return &evaluation.ProjectMetadata{
		ID:       c.ID,
		Name:     c.Name,
		Campaign: c.Campaign,
	}
}
