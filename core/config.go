package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Engine        string
	Name          string
	User          string
	Password      string
	AdminUser     string
	AdminPassword string
	Host          string
	Port          int
	DisableTLS    bool
}

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type Config struct {
	Env      string
	Build    string
	AppName  string
	Debug    bool
	TestMode bool

	Database DatabaseConfig

	// AliasFile points to an optional CSV file (field,value,alias) overriding the
	// built-in alias table. A missing file is not an error.
	AliasFile string

	// InstitutionAPIURL is the base URL of the external institution directory
	// queried during CSV imports.
	InstitutionAPIURL string

	// QuestionSyncURL is the external catalog document consumed by `syncquestions`.
	QuestionSyncURL string

	RollbarToken string
}

// NewConfig loads configuration from defaults, an optional .env file and
// environment variables (prefixed with the current ENV name).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "MetricsDB")
	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.name", "metricsdb")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.user", "")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("aliasFile", "")
	conf.SetDefault("institutionAPIURL", "https://api.ror.org/organizations")
	conf.SetDefault("questionSyncURL", "")
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()

	return &Config{
		Env:      env,
		Build:    conf.GetString("build"),
		AppName:  conf.GetString("appName"),
		Debug:    conf.GetBool("debug"),
		TestMode: conf.GetBool("testMode"),
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		AliasFile:         conf.GetString("aliasFile"),
		InstitutionAPIURL: conf.GetString("institutionAPIURL"),
		QuestionSyncURL:   conf.GetString("questionSyncURL"),
		RollbarToken:      conf.GetString("rollbarToken"),
	}
}
