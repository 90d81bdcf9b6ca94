// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package commons

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging surface every component receives by injection.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})

	// Benchmark logs how long the named function took.
	Benchmark(functionName string, duration time.Duration)
	Sync() error
}

type loggerOptions struct {
	name       string
	path       string
	level      string
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

type Option func(*loggerOptions)

func Name(name string) Option {
	return func(o *loggerOptions) { o.name = name }
}

// Path enables the rotated JSON file sink under the given directory.
func Path(path string) Option {
	return func(o *loggerOptions) { o.path = path }
}

func Level(level string) Option {
	return func(o *loggerOptions) { o.level = level }
}

func Rotation(maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(o *loggerOptions) {
		o.maxSizeMB = maxSizeMB
		o.maxBackups = maxBackups
		o.maxAgeDays = maxAgeDays
	}
}

type applicationLogger struct {
	*zap.SugaredLogger
	// bench skips the Benchmark frame so callers are reported correctly.
	bench *zap.SugaredLogger
}

// NewApplicationLogger builds a zap backed logger. Without a Path the logger
// only writes to stdout.
func NewApplicationLogger(opts ...Option) (Logger, error) {
	o := &loggerOptions{
		name:       "sounds",
		level:      "info",
		maxSizeMB:  50,
		maxBackups: 5,
		maxAgeDays: 14,
	}
	for _, opt := range opts {
		opt(o)
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(o.level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.level, err)
	}
	atomicLevel := zap.NewAtomicLevelAt(lvl)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), atomicLevel),
	}
	if o.path != "" {
		if err := os.MkdirAll(o.path, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create log directory %s: %w", o.path, err)
		}
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(o.path, o.name+".log"),
			MaxSize:    o.maxSizeMB,
			MaxBackups: o.maxBackups,
			MaxAge:     o.maxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileSink, atomicLevel))
	}

	base := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(o.name)
	zap.ReplaceGlobals(base)
	return &applicationLogger{
		SugaredLogger: base.Sugar(),
		bench:         base.WithOptions(zap.AddCallerSkip(1)).Sugar(),
	}, nil
}

func (l *applicationLogger) Benchmark(functionName string, duration time.Duration) {
	l.bench.Debugw("benchmark", "function", functionName, "duration", duration.String())
}
