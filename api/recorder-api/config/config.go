// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	internal_recorder "github.com/HN-Vignolles/sounds/api/recorder-api/internal/recorder"
)

// Application config structure
type RecorderConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required"`
	LogPath  string `mapstructure:"log_path"`
	Env      string `mapstructure:"env"`

	SampleRate       int    `mapstructure:"sample_rate" validate:"gte=8000,lte=192000"`
	RecDuration      int    `mapstructure:"rec_duration" validate:"gte=1,lte=60"`
	ChunkSamples     int    `mapstructure:"chunk_samples" validate:"gte=1"`
	SubscriberBuffer int    `mapstructure:"subscriber_buffer" validate:"gte=1"`
	SamplesPath      string `mapstructure:"samples_path"`
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	if path := os.Getenv("ENV_PATH"); path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
		log.Printf("Reading from env variables.")
	}
	return vConfig, nil
}

func setDefault(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "sounds-recorder")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 5000)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("ENV", "development")

	v.SetDefault("SAMPLE_RATE", 16000)
	v.SetDefault("REC_DURATION", 2)
	v.SetDefault("CHUNK_SAMPLES", 320)
	v.SetDefault("SUBSCRIBER_BUFFER", 64)
	v.SetDefault("SAMPLES_PATH", "./datasets")
}

var decodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
)

// Getting application config from viper
func GetApplicationConfig(v *viper.Viper) (*RecorderConfig, error) {
	var config RecorderConfig
	if err := v.Unmarshal(&config, viper.DecodeHook(decodeHook)); err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	if config.ChunkSamples > config.SampleRate*config.RecDuration {
		return nil, fmt.Errorf("chunk_samples %d exceeds the take length of %d samples",
			config.ChunkSamples, config.SampleRate*config.RecDuration)
	}
	return &config, nil
}

func (c *RecorderConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *RecorderConfig) Recorder() internal_recorder.Config {
	return internal_recorder.Config{
		SampleRate:       c.SampleRate,
		RecDuration:      c.RecDuration,
		ChunkSamples:     c.ChunkSamples,
		SubscriberBuffer: c.SubscriberBuffer,
		SamplesPath:      c.SamplesPath,
	}
}
