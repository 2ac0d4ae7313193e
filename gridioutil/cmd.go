/*
Copyright © 2024 the gridio authors.
This file is part of gridio.

gridio is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridio is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridio.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package gridioutil contains the command-line interface for gridio.
package gridioutil

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridio"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/floats"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	readFlags := []*pflag.FlagSet{convertCmd.Flags(), infoCmd.Flags(), showCmd.Flags()}

	// Options are the configuration options available to gridio.
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
			name: "LogLevel",
			usage: `
              LogLevel specifies the level of detail of log messages:
              one of panic, fatal, error, warning, info or debug.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile specifies the path to the grid file to read.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   readFlags,
		},
		{
			name: "InputFormat",
			usage: `
              InputFormat specifies the format of InputFile: one of gslib,
              csv, grd3, eas or netcdf. If it is empty, the format is
              determined from the file extension.`,
			defaultVal: "",
			flagsets:   readFlags,
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the path to the grid file to write.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "OutputFormat",
			usage: `
              OutputFormat specifies the format of OutputFile: one of gslib,
              csv, grd3, ascii, netcdf or shp. If it is empty, the format is
              determined from the file extension.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "Dims",
			usage: `
              Dims specifies the number of grid cells in the x, y and z
              directions. It is required for EAS input files, whose header
              does not include the grid size.`,
			defaultVal: []int{},
			flagsets:   readFlags,
		},
		{
			name: "Geometry.X0",
			usage: `
              Geometry.X0 specifies the X coordinate of the center of the
              first grid cell, for formats that don't store the geometry.`,
			defaultVal: 0.0,
			flagsets:   readFlags,
		},
		{
			name: "Geometry.Y0",
			usage: `
              Geometry.Y0 specifies the Y coordinate of the center of the
              first grid cell.`,
			defaultVal: 0.0,
			flagsets:   readFlags,
		},
		{
			name: "Geometry.Z0",
			usage: `
              Geometry.Z0 specifies the Z coordinate of the center of the
              first grid cell.`,
			defaultVal: 0.0,
			flagsets:   readFlags,
		},
		{
			name: "Geometry.DX",
			usage: `
              Geometry.DX specifies the grid cell size in the X direction.`,
			defaultVal: 1.0,
			flagsets:   readFlags,
		},
		{
			name: "Geometry.DY",
			usage: `
              Geometry.DY specifies the grid cell size in the Y direction.`,
			defaultVal: 1.0,
			flagsets:   readFlags,
		},
		{
			name: "Geometry.DZ",
			usage: `
              Geometry.DZ specifies the grid cell size in the Z direction.`,
			defaultVal: 1.0,
			flagsets:   readFlags,
		},
		{
			name: "Channel",
			usage: `
              Channel specifies the column of a GSLIB file to read, starting
              at 0. -1 means the mean of all columns.`,
			defaultVal: 0,
			flagsets:   readFlags,
		},
		{
			name: "MeanFactor",
			usage: `
              MeanFactor specifies a number that values read from GSLIB
              files are divided by.`,
			defaultVal: 1.0,
			flagsets:   readFlags,
		},
		{
			name: "NoDataValue",
			usage: `
              NoDataValue specifies the value that marks missing samples in
              EAS hard data files.`,
			defaultVal: -999.0,
			flagsets:   readFlags,
		},
		{
			name: "Variable",
			usage: `
              Variable specifies the name of the netCDF variable that holds
              the grid values.`,
			defaultVal: gridio.DefaultVariable,
			flagsets:   readFlags,
		},
		{
			name: "ValueType",
			usage: `
              ValueType specifies how values are stored in GRD3 output files:
              one of float32, float64, uint8 or int16.`,
			defaultVal: gridio.DefaultValueType.String(),
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "ValueExpression",
			usage: `
              ValueExpression specifies an expression that is applied to
              every cell before writing the output, for example 'v * 1000'.
              The expression can use the cell value v, the cell center
              coordinates x, y and z, and the cell indices i, j and k.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "Categories",
			usage: `
              Categories specifies the category values of the columns of an
              EAS soft data file. If it is set, info reads InputFile as soft
              data.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{infoCmd.Flags()},
		},
		{
			name: "Layer",
			usage: `
              Layer specifies the vertical layer to draw. -1 means all layers.`,
			defaultVal: -1,
			flagsets:   []*pflag.FlagSet{showCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GRIDIO")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
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
	Root.AddCommand(convertCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(showCmd)
	Root.AddCommand(configCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gridio: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLogger configures the logger used by gridio according to the
// LogLevel option.
func setLogger() error {
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("gridio: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	gridio.Log = logrus.StandardLogger()
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gridio",
	Short: "Read, write and convert geostatistical grid files.",
	Long: `gridio reads, writes and converts the 3D grid files used by multiple-point
geostatistical simulation: GSLIB, GS3D CSV, GS3D GRD3 and EAS, as well as
netCDF, ASCII and shapefiles.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GRIDIO_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		return setLogger()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of gridio.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gridio v%s\n", gridio.Version)
	},
	DisableAutoGenTag: true,
}

// convertCmd is a command that converts a grid file to another format.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a grid file to a different format.",
	Long: `convert reads the grid in InputFile and writes it to OutputFile,
optionally transforming each value with ValueExpression.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Convert(Cfg)
	},
	DisableAutoGenTag: true,
}

// Convert reads the input grid specified in cfg, applies the value
// expression if there is one, and writes the output grid.
func Convert(cfg *viper.Viper) error {
	g, geom, err := ReadGrid(cfg)
	if err != nil {
		return err
	}
	if expr := cfg.GetString("ValueExpression"); expr != "" {
		if err := TransformValues(g, geom, expr); err != nil {
			return err
		}
	}
	if err := WriteGrid(cfg, g, geom); err != nil {
		return err
	}
	nx, ny, nz := g.Dims()
	gridio.Log.WithFields(logrus.Fields{
		"input":  cfg.GetString("InputFile"),
		"output": cfg.GetString("OutputFile"),
		"dims":   fmt.Sprintf("%dx%dx%d", nx, ny, nz),
	}).Info("converted grid")
	return nil
}

// infoCmd is a command that describes a grid file.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print information about a grid file.",
	Long: `info prints the dimensions, geometry and summary statistics of the
grid in InputFile. If Categories is set, InputFile is read as EAS soft data
and the mean probability of each category is printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := categoriesConfig(Cfg)
		if err != nil {
			return err
		}
		if len(cats) > 0 {
			return softDataInfo(cmd, Cfg)
		}
		g, geom, err := ReadGrid(Cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, gridio.Summarize(g))
		fmt.Fprintf(out, "origin: (%g, %g, %g)\n", geom.X0, geom.Y0, geom.Z0)
		fmt.Fprintf(out, "cell size: (%g, %g, %g)\n", geom.DX, geom.DY, geom.DZ)
		fmt.Fprintf(out, "fingerprint: %s\n", g.Fingerprint())
		return nil
	},
	DisableAutoGenTag: true,
}

// softDataInfo prints the mean probability of each category in a soft
// data file, ignoring cells with no sample.
func softDataInfo(cmd *cobra.Command, cfg *viper.Viper) error {
	g, err := ReadSoftData(cfg)
	if err != nil {
		return err
	}
	nx, ny, nz, nc := g.Dims()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%dx%dx%d soft data grid, %d categories\n", nx, ny, nz, nc)
	vals := make([]float64, 0, nx*ny*nz)
	for c, cat := range g.Categories {
		vals = vals[:0]
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					if v := g.At(i, j, k, c); !math.IsNaN(v) {
						vals = append(vals, v)
					}
				}
			}
		}
		mean := math.NaN()
		if len(vals) > 0 {
			mean = floats.Sum(vals) / float64(len(vals))
		}
		fmt.Fprintf(out, "category %g: %d samples, mean %g\n", cat, len(vals), mean)
	}
	return nil
}

// showCmd is a command that draws a grid on the console.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Draw a grid file on the console.",
	Long: `show draws the grid in InputFile as text, one character per cell,
with the top row of each layer first. Cell values are mapped to characters
by rounding down, so it works best for categorical grids.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, _, err := ReadGrid(Cfg)
		if err != nil {
			return err
		}
		layer := Cfg.GetInt("Layer")
		if layer < 0 {
			return gridio.DrawGrid(cmd.OutOrStdout(), g)
		}
		_, _, nz := g.Dims()
		if layer >= nz {
			return fmt.Errorf("gridio: Layer %d is out of range for a grid with %d layers", layer, nz)
		}
		return gridio.DrawSlice(cmd.OutOrStdout(), g, layer)
	},
	DisableAutoGenTag: true,
}

// configCmd is a command that prints the configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration.",
	Long: `config prints the configuration in TOML format, combining the defaults,
the configuration file, environment variables and command-line arguments.
The output can be used as a configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(configMap(Cfg))
	},
	DisableAutoGenTag: true,
}

// configMap returns the current value of every option except "config",
// with dotted option names (e.g., Geometry.X0) nested in tables.
func configMap(cfg *viper.Viper) map[string]interface{} {
	o := make(map[string]interface{})
	for _, option := range options {
		if option.name == "config" {
			continue
		}
		var v interface{}
		switch option.defaultVal.(type) {
		case string:
			v = cfg.GetString(option.name)
		case []string:
			v = cast.ToStringSlice(sliceValue(cfg.Get(option.name)))
		case int:
			v = cfg.GetInt(option.name)
		case []int:
			v = cast.ToIntSlice(sliceValue(cfg.Get(option.name)))
		case float64:
			v = cfg.GetFloat64(option.name)
		}
		m := o
		parts := strings.Split(option.name, ".")
		for _, p := range parts[:len(parts)-1] {
			sub, ok := m[p].(map[string]interface{})
			if !ok {
				sub = make(map[string]interface{})
				m[p] = sub
			}
			m = sub
		}
		m[parts[len(parts)-1]] = v
	}
	return o
}
