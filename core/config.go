package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	StorageConfig struct {
		DocumentPath    string // absolute
		UploadDir       string // absolute
		UploadURLPrefix string // public path the upload dir is served from
	}

	MailConfig struct {
		DefaultFromEmail mail.Address
		NotifyEmail      string // submission receipts go here when set
		SendgridApiKey   string
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string

		Server  ServerConfig
		Storage StorageConfig
		Mail    MailConfig
	}
)

// NewConfig reads the configuration from the environment.
// ENV selects the env prefix and the optional `config/.env.<env>` file: DEV (local; default), TEST, QA, PROD.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Classdrop")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("storage.documentPath", "db.json")
	v.SetDefault("storage.uploadDir", "uploads")
	v.SetDefault("storage.uploadURLPrefix", "/uploads")
	v.SetDefault("mail.defaultFromEmail", "noreply@localhost")
	v.SetDefault("mail.notifyEmail", "")
	v.SetDefault("mail.sendgridApiKey", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			DebugAddress:    v.GetString("server.debugAddress"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Storage: StorageConfig{
			DocumentPath:    absPath(v.GetString("storage.documentPath")),
			UploadDir:       absPath(v.GetString("storage.uploadDir")),
			UploadURLPrefix: "/" + strings.Trim(v.GetString("storage.uploadURLPrefix"), "/"),
		},
		Mail: MailConfig{
			DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("mail.defaultFromEmail")},
			NotifyEmail:      CleanString(v.GetString("mail.notifyEmail"), true /* lower */),
			SendgridApiKey:   v.GetString("mail.sendgridApiKey"),
		},
	}
	return conf
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		log.Fatalf("config.filepath.Abs(%s): %v", p, err)
	}
	return abs
}
