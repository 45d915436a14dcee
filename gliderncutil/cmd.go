/*
Copyright © 2024 the GliderNC authors.
This file is part of GliderNC.

GliderNC is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GliderNC is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GliderNC.  If not, see <http://www.gnu.org/licenses/>.
*/

package gliderncutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/glidernc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	yaml "gopkg.in/yaml.v3"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to GliderNC.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "etc",
			usage: `
              etc specifies the basestation installation directory holding
              site-wide defaults such as NODC.yml.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "mission",
			usage: `
              mission specifies the mission directory. Overrides found there
              take precedence over the etc directory.`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose enables debug-level log output.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "output",
			usage: `
              output specifies the file to write the merged global
              attributes to in YAML format. The default is standard output.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mergeGlobalsCmd.Flags()},
		},
	}

	Cfg = viper.New()
	for _, option := range options {
		for _, set := range option.flagsets {
			switch def := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, def, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, def, option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, def, option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, def, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(checkCmd)
	Root.AddCommand(mergeGlobalsCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("glidernc: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Log is the logger shared by the commands. Commands run with
// warning-level output unless --verbose asks for everything.
var Log = logrus.New()

func setVerbosity() {
	if Cfg.GetBool("verbose") {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.WarnLevel)
	}
}

func cmdOptions() *glidernc.Options {
	return &glidernc.Options{
		EtcDir:     os.ExpandEnv(Cfg.GetString("etc")),
		MissionDir: os.ExpandEnv(Cfg.GetString("mission")),
	}
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "glidernc",
	Short: "Seaglider netCDF metadata tools.",
	Long: `glidernc validates and manipulates the netCDF metadata produced by
Seaglider basestation processing. Use the subcommands specified below to
access the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag) or by using command-line arguments.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		setVerbosity()
		return setConfig()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GliderNC.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("GliderNC v%s (QC v%s)\n", glidernc.Version, glidernc.QualityControlVersion)
	},
	DisableAutoGenTag: true,
}

// checkCmd validates the combined metadata tables the way dive
// processing would at startup, so a broken sensor extension or
// override file is caught before it corrupts a night of dives.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the variable metadata tables.",
	Long: `check builds the combined variable metadata table from the static
declarations and the compiled-in sensor extensions, runs the compliance
pass over it, and verifies any NODC.yml override files found in the etc
and mission directories. A non-zero exit status means dive processing
would refuse to write files with this configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := glidernc.NewSchemaTable(Log)
		dims := glidernc.NewDimRegistry(Log, schema)
		if err := glidernc.InitTables(schema, dims, glidernc.BuiltinContributions()); err != nil {
			return err
		}
		globals := glidernc.NewGlobalAttrs(Log)
		if err := globals.CheckOverrides(cmdOptions()); err != nil {
			return err
		}
		cmd.Printf("%d variables declared\n", schema.Len())
		return nil
	},
	DisableAutoGenTag: true,
}

// mergeGlobalsCmd folds the global attributes of several per-dive
// files into one mission-level attribute set.
var mergeGlobalsCmd = &cobra.Command{
	Use:   "merge-globals file.nc [file.nc ...]",
	Short: "Merge global attributes across dive files.",
	Long: `merge-globals reads the global attributes of the given per-dive
netCDF files in order and folds them into a single mission-level
attribute set, applying the per-attribute merge rules dive processing
uses when building mission products. The result is written as YAML.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		globals := glidernc.NewGlobalAttrs(Log)
		master := map[string]interface{}{}
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			slave, err := glidernc.ReadGlobals(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			globals.Merge(master, slave)
		}
		out, err := yaml.Marshal(master)
		if err != nil {
			return err
		}
		if path := Cfg.GetString("output"); path != "" {
			return os.WriteFile(path, out, 0644)
		}
		cmd.Print(string(out))
		return nil
	},
	DisableAutoGenTag: true,
}
