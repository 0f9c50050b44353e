// pkg/cli/cli.go
//
// Helpers that connect cobra/pflag flags to a viper instance.

package cli

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// KeyForFlag maps a flag name such as dry-run to its config key dry_run.
func KeyForFlag(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// BindFlagsToViper binds every flag in the set to a Viper instance.
// Only flags the user actually set override config and environment.
func BindFlagsToViper(flags *pflag.FlagSet, v *viper.Viper) error {
	var result error
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(KeyForFlag(f.Name), f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}

// SetViperEnvPrefix lets Viper read PREFIX_SECTION_KEY variables.
func SetViperEnvPrefix(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}
