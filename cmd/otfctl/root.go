package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/optelix/otf"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "otfctl",
	Short: "Control an electronically tunable optical filter",
	Long: `otfctl drives a tunable optical filter over its serial interface.

The filter is addressed through a serial port (--port flag, OTF_PORT
environment variable, or config file); all commands use the device's
fixed 9600 8N1 framing unless overridden.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.otfctl.yaml)")
	rootCmd.PersistentFlags().String("port", "", "serial port of the filter (default: platform USB serial adapter)")
	rootCmd.PersistentFlags().Int("baud", otf.DefaultBaudRate.Int(), "baud rate")
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Second, "per-command timeout")
	rootCmd.PersistentFlags().Bool("verify", false, "probe the device identity after opening")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this rotating file")

	for _, flag := range []string{"port", "baud", "timeout", "verify", "verbose", "log-file"} {
		_ = viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	}

	viper.SetEnvPrefix("OTF")
	viper.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".otfctl")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	if path := viper.GetString("log-file"); path != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func openDevice(log zerolog.Logger) (*otf.Device, error) {
	cfg := otf.DefaultConfig(viper.GetString("port"))
	if baud := viper.GetInt("baud"); baud != 0 {
		cfg.BaudRate = otf.BaudRate(baud)
	}
	cfg.Verify = viper.GetBool("verify")

	return otf.Open(cfg, otf.WithLogger(log))
}

func cmdTimeout() time.Duration {
	return viper.GetDuration("timeout")
}
