package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/khanghh/signup-form/internal/form"
	"github.com/spf13/viper"
)

const (
	DefaultAppName       = "Sign up"
	DefaultListenAddr    = ":3000"
	DefaultCookieName    = "signup_session"
	DefaultSessionMaxAge = 24 * time.Hour
	DefaultStateTTL      = 24 * time.Hour
	DefaultPasswordCost  = 10
)

type SessionConfig struct {
	SessionMaxAge  time.Duration `mapstructure:"sessionMaxAge"`
	CookieName     string        `mapstructure:"cookieName"`
	CookieHttpOnly bool          `mapstructure:"cookieHttpOnly"`
	CookieSecure   bool          `mapstructure:"cookieSecure"`
}

type FormConfig struct {
	SubmitDelay     time.Duration `mapstructure:"submitDelay"`
	StateTTL        time.Duration `mapstructure:"stateTTL"`
	RetainOnPass    bool          `mapstructure:"retainOnPass"`
	PasswordHashing int           `mapstructure:"passwordHashCost"`
}

type Config struct {
	Debug       bool          `mapstructure:"debug"`
	AppName     string        `mapstructure:"appName"`
	ListenAddr  string        `mapstructure:"listenAddr"`
	StaticDir   string        `mapstructure:"staticDir"`
	TemplateDir string        `mapstructure:"templateDir"`
	RedisURL    string        `mapstructure:"redisURL"`
	Session     SessionConfig `mapstructure:"session"`
	Form        FormConfig    `mapstructure:"form"`
}

func (c *Config) Sanitize() error {
	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Session.SessionMaxAge == 0 {
		c.Session.SessionMaxAge = DefaultSessionMaxAge
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if c.Form.SubmitDelay == 0 {
		c.Form.SubmitDelay = form.DefaultSubmitDelay
	}
	if c.Form.StateTTL == 0 {
		c.Form.StateTTL = DefaultStateTTL
	}
	if c.Form.PasswordHashing == 0 {
		c.Form.PasswordHashing = DefaultPasswordCost
	}
	if c.Form.SubmitDelay < 0 || c.Form.StateTTL < 0 || c.Session.SessionMaxAge < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// EnvPrefix prefixes environment overrides, e.g. SIGNUP_FORM_SUBMITDELAY
// for form.submitDelay.
const EnvPrefix = "SIGNUP"

// setDefaults registers every key so AutomaticEnv can resolve it even when
// the config file does not mention it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("appName", DefaultAppName)
	v.SetDefault("listenAddr", DefaultListenAddr)
	v.SetDefault("staticDir", "")
	v.SetDefault("templateDir", "")
	v.SetDefault("redisURL", "")

	v.SetDefault("session.sessionMaxAge", DefaultSessionMaxAge)
	v.SetDefault("session.cookieName", DefaultCookieName)
	v.SetDefault("session.cookieHttpOnly", false)
	v.SetDefault("session.cookieSecure", false)

	v.SetDefault("form.submitDelay", form.DefaultSubmitDelay)
	v.SetDefault("form.stateTTL", DefaultStateTTL)
	v.SetDefault("form.retainOnPass", false)
	v.SetDefault("form.passwordHashCost", DefaultPasswordCost)
}

// LoadConfig reads a YAML config file, overridden by SIGNUP_* environment
// variables. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
