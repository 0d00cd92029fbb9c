package lib

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlag = "config"

type baseConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// InitializeConfig standardises config initialisation across the binaries.
//
// Config lives in a YAML file at defaultPath, overridable with the --config
// flag. Keys present in defaultConfig but absent from the file keep their
// default. Env vars override file keys (uppercased, "." replaced by "_").
// The log_level key is applied to zerolog's global level before the config
// is unmarshalled into targetStruct.
func InitializeConfig(defaultPath string, defaultConfig map[string]interface{}, targetStruct interface{}) error {
	pflag.String(configFlag, defaultPath, "The config file path.")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return err
	}

	configFile := viper.GetString(configFlag)
	if !filepath.IsAbs(configFile) {
		var err error
		configFile, err = filepath.Abs(configFile)
		if err != nil {
			return err
		}
	}

	for k, v := range defaultConfig {
		viper.SetDefault(k, v)
	}

	viper.SetConfigName(strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile)))
	viper.AddConfigPath(filepath.Dir(configFile))

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Warn().Err(err).Msg("default settings applied")
	} else if err != nil {
		return err
	}

	var bc baseConfig
	if err := viper.Unmarshal(&bc); err != nil {
		return err
	}
	lvl, err := zerolog.ParseLevel(bc.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)

	return viper.Unmarshal(targetStruct)
}
