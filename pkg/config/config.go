// pkg/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/frappe"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/mariadb"
	"github.com/CodeMonkeyCybersecurity/hestia/pkg/shared"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the installer configuration. Every field has a default so the
// installer runs with no config file at all.
type Config struct {
	LogLevel       string          `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile        string          `mapstructure:"log_file"`
	StateDir       string          `mapstructure:"state_dir" validate:"required"`
	DryRun         bool            `mapstructure:"dry_run"`
	CommandTimeout time.Duration   `mapstructure:"command_timeout" validate:"gte=0"`
	Packages       []string        `mapstructure:"packages" validate:"min=1,dive,required"`
	Bench          BenchConfig     `mapstructure:"bench"`
	NVM            NVMConfig       `mapstructure:"nvm"`
	MariaDB        MariaDBConfig   `mapstructure:"mariadb"`
	Paths          PathsConfig     `mapstructure:"paths"`
	Preflight      PreflightConfig `mapstructure:"preflight"`
	Telemetry      TelemetryConfig `mapstructure:"telemetry"`
}

type BenchConfig struct {
	User          string `mapstructure:"user" validate:"required"`
	UserHome      string `mapstructure:"user_home" validate:"required"`
	DirName       string `mapstructure:"dir_name" validate:"required,excludesall=/"`
	DefaultBranch string `mapstructure:"default_branch" validate:"required"`
	Python        string `mapstructure:"python" validate:"required"`
}

type NVMConfig struct {
	InstallURL string `mapstructure:"install_url" validate:"required,url"`
	Dir        string `mapstructure:"dir"`
}

type MariaDBConfig struct {
	ConfigPath      string `mapstructure:"config_path" validate:"required"`
	MaintenanceFile string `mapstructure:"maintenance_file" validate:"required"`
}

type PathsConfig struct {
	NginxConfDir   string `mapstructure:"nginx_conf_dir" validate:"required"`
	LetsEncryptDir string `mapstructure:"letsencrypt_dir" validate:"required"`
}

type PreflightConfig struct {
	MinFreeDiskGB     int    `mapstructure:"min_free_disk_gb" validate:"gte=0"`
	CheckRemoteBranch bool   `mapstructure:"check_remote_branch"`
	FrappeRepo        string `mapstructure:"frappe_repo" validate:"required,url"`
}

type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// DefaultPackages are installed by the system-packages stage.
var DefaultPackages = []string{
	"git", "curl", "cron", "build-essential", "pkg-config",
	"python3-dev", "python3-pip", "python3-venv", "python3-setuptools", "pipx",
	"mariadb-server", "mariadb-client", "libmariadb-dev",
	"redis-server", "xvfb", "libfontconfig1", "software-properties-common",
}

func setDefaults(v *viper.Viper) {
	username, home := currentUser()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", shared.LogFile)
	v.SetDefault("state_dir", shared.StateDir)
	v.SetDefault("dry_run", false)
	v.SetDefault("command_timeout", time.Duration(0))
	v.SetDefault("packages", DefaultPackages)

	v.SetDefault("bench.user", username)
	v.SetDefault("bench.user_home", home)
	v.SetDefault("bench.dir_name", "frappe-bench")
	v.SetDefault("bench.default_branch", frappe.DefaultBranch)
	v.SetDefault("bench.python", "python3")

	v.SetDefault("nvm.install_url", "https://raw.githubusercontent.com/nvm-sh/nvm/v0.39.7/install.sh")
	v.SetDefault("nvm.dir", "")

	v.SetDefault("mariadb.config_path", mariadb.DefaultServerConfigPath)
	v.SetDefault("mariadb.maintenance_file", mariadb.DefaultMaintenanceFile)

	v.SetDefault("paths.nginx_conf_dir", "/etc/nginx/conf.d")
	v.SetDefault("paths.letsencrypt_dir", "/etc/letsencrypt")

	v.SetDefault("preflight.min_free_disk_gb", 10)
	v.SetDefault("preflight.check_remote_branch", false)
	v.SetDefault("preflight.frappe_repo", "https://github.com/frappe/frappe")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.path", shared.TelemetryFile)
}

func currentUser() (string, string) {
	u, err := user.Current()
	if err != nil {
		home, _ := os.UserHomeDir()
		return os.Getenv("USER"), home
	}
	return u.Username, u.HomeDir
}

// Load merges defaults, the config file, HESTIA_* environment variables and
// any flags the user set, in increasing order of precedence. An explicit
// path must exist; the default path is optional.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	cli.SetViperEnvPrefix(v, shared.EnvPrefix)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(shared.ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(shared.ConfigDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, hestia_err.NewValidationError("failed to read configuration", err,
				"Check that the file exists and is valid YAML")
		}
	}

	if flags != nil {
		if err := cli.BindFlagsToViper(flags, v); err != nil {
			return nil, hestia_err.NewInternalError("failed to bind flags", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, hestia_err.NewValidationError("failed to decode configuration", err)
	}
	if cfg.NVM.Dir == "" {
		cfg.NVM.Dir = filepath.Join(cfg.Bench.UserHome, ".nvm")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and reports every problem at once.
func (c *Config) Validate() error {
	var all *multierror.Error
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return hestia_err.NewInternalError("configuration validation failed", err)
		}
		for _, fe := range verrs {
			all = multierror.Append(all, fmt.Errorf("%s: failed %q validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}
	if c.Bench.User != "" {
		if err := interaction.ValidateUsername(c.Bench.User); err != nil {
			all = multierror.Append(all, fmt.Errorf("Config.Bench.User: %w", err))
		}
	}
	if all.ErrorOrNil() == nil {
		return nil
	}
	return hestia_err.NewValidationError("invalid configuration", all.ErrorOrNil(),
		fmt.Sprintf("Fix the listed keys in %s/%s.yaml or the matching %s_* environment variables",
			shared.ConfigDir, shared.ConfigName, shared.EnvPrefix))
}

// FrappeSettings maps the configuration onto the stage settings.
func (c *Config) FrappeSettings() frappe.Settings {
	return frappe.Settings{
		User:            c.Bench.User,
		UserHome:        c.Bench.UserHome,
		BenchDirName:    c.Bench.DirName,
		Python:          c.Bench.Python,
		Packages:        c.Packages,
		NVMInstallURL:   c.NVM.InstallURL,
		NVMDir:          c.NVM.Dir,
		MariaDBConfig:   c.MariaDB.ConfigPath,
		MaintenanceFile: c.MariaDB.MaintenanceFile,
		NginxConfDir:    c.Paths.NginxConfDir,
		LetsEncryptDir:  c.Paths.LetsEncryptDir,
	}
}
