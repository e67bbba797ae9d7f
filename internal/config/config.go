package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"github.com/thisrohangupta/agents/internal/branding"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/rules"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyFormat    = "format"
	KeyStrict    = "strict"
	KeyWorkers   = "workers"
	KeyCache     = "cache"
	KeyProse     = "prose"
	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
	KeyRules     = "rules"
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	Format    string
	Strict    bool
	Workers   int
	Cache     string
	Prose     bool
	LogLevel  string
	LogFormat string
	Overrides map[diag.Code]rules.Override
}

// Dir returns the path to the templint config directory (~/.templint/).
// TEMPLINT_HOME replaces it when set.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("home")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the user config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault(KeyFormat, "text")
	viper.SetDefault(KeyStrict, false)
	viper.SetDefault(KeyWorkers, 0)
	viper.SetDefault(KeyCache, "")
	viper.SetDefault(KeyProse, true)
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyLogFormat, "text")
}

// Load resets Viper and reads the configuration. An explicit file replaces
// the user and project files. Missing user and project files are not an
// error; a file that exists but does not parse is.
func Load(explicit string) error {
	viper.Reset()
	setDefaults()
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if explicit != "" {
		viper.SetConfigFile(explicit)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", explicit, err)
		}
		return nil
	}

	viper.SetConfigFile(FilePath())
	if err := viper.ReadInConfig(); err != nil && !missing(err) {
		return fmt.Errorf("reading config %s: %w", FilePath(), err)
	}

	project := branding.ProjectFile()
	if _, err := os.Stat(project); err == nil {
		viper.SetConfigFile(project)
		if err := viper.MergeInConfig(); err != nil {
			return fmt.Errorf("merging project config %s: %w", project, err)
		}
	}
	return nil
}

func missing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Current resolves the loaded configuration into Settings.
func Current() (*Settings, error) {
	s := &Settings{
		Format:    viper.GetString(KeyFormat),
		Strict:    viper.GetBool(KeyStrict),
		Workers:   viper.GetInt(KeyWorkers),
		Cache:     viper.GetString(KeyCache),
		Prose:     viper.GetBool(KeyProse),
		LogLevel:  viper.GetString(KeyLogLevel),
		LogFormat: viper.GetString(KeyLogFormat),
	}
	if s.Format != "text" && s.Format != "json" {
		return nil, fmt.Errorf("invalid %s %q: want text or json", KeyFormat, s.Format)
	}
	overrides, err := Overrides()
	if err != nil {
		return nil, err
	}
	s.Overrides = overrides
	return s, nil
}

// Overrides reads rules.<CODE>.severity and rules.<CODE>.disabled. Viper
// lowercases keys, so codes are upper-cased back.
func Overrides() (map[diag.Code]rules.Override, error) {
	entries := viper.GetStringMap(KeyRules)
	if len(entries) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[diag.Code]rules.Override, len(keys))
	for _, k := range keys {
		prefix := KeyRules + "." + k + "."
		var o rules.Override
		if text := viper.GetString(prefix + "severity"); text != "" {
			sev, err := diag.ParseSeverity(text)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", strings.ToUpper(k), err)
			}
			o.Severity = &sev
		}
		o.Disabled = viper.GetBool(prefix + "disabled")
		out[diag.Code(strings.ToUpper(k))] = o
	}
	return out, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a key-value pair to the user config file. Only the user file is
// rewritten, so project and environment values never leak into it.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	user := viper.New()
	user.SetConfigFile(configFile)
	user.SetConfigType(fileType)
	if err := user.ReadInConfig(); err != nil && !missing(err) {
		return fmt.Errorf("reading config %s: %w", configFile, err)
	}

	user.Set(key, value)
	if err := user.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}
