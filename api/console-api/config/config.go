// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type RecorderConfig struct {
	Url        string        `mapstructure:"url" validate:"required,url"`
	StreamPath string        `mapstructure:"stream_path" validate:"required,startswith=/"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type RenderConfig struct {
	Width    int           `mapstructure:"width" validate:"gt=0"`
	Height   int           `mapstructure:"height" validate:"gt=0"`
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
	Stride   int           `mapstructure:"stride" validate:"gte=1"`
}

type StreamConfig struct {
	InboxSize  int           `mapstructure:"inbox_size" validate:"gte=1"`
	MaxBackoff time.Duration `mapstructure:"max_backoff" validate:"gt=0"`
}

// Application config structure
type ConsoleConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required"`
	LogPath  string `mapstructure:"log_path"`
	Env      string `mapstructure:"env"`

	// Events are the categories offered when saving a take.
	Events []string `mapstructure:"events"`

	Recorder RecorderConfig `mapstructure:"recorder" validate:"required"`
	Render   RenderConfig   `mapstructure:"render" validate:"required"`
	Stream   StreamConfig   `mapstructure:"stream" validate:"required"`
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
	v.SetDefault("SERVICE_NAME", "sounds-console")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8081)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("ENV", "development")
	v.SetDefault("EVENTS", []string{"dog", "rooster", "pig", "cow", "frog", "cat", "hen", "insects", "sheep", "crow"})

	v.SetDefault("RECORDER__URL", "http://localhost:5000")
	v.SetDefault("RECORDER__STREAM_PATH", "/ws")
	v.SetDefault("RECORDER__TIMEOUT", 5*time.Second)

	v.SetDefault("RENDER__WIDTH", 500)
	v.SetDefault("RENDER__HEIGHT", 180)
	v.SetDefault("RENDER__INTERVAL", 20*time.Millisecond)
	v.SetDefault("RENDER__STRIDE", 10)

	v.SetDefault("STREAM__INBOX_SIZE", 256)
	v.SetDefault("STREAM__MAX_BACKOFF", 10*time.Second)
}

var decodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
)

// Getting application config from viper
func GetApplicationConfig(v *viper.Viper) (*ConsoleConfig, error) {
	var config ConsoleConfig
	if err := v.Unmarshal(&config, viper.DecodeHook(decodeHook)); err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	return &config, nil
}

func (c *ConsoleConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StreamURL is the recorder push channel, derived from the REST base URL.
func (c *ConsoleConfig) StreamURL() (string, error) {
	u, err := url.Parse(c.Recorder.Url)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + c.Recorder.StreamPath
	return u.String(), nil
}
