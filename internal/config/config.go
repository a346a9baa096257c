package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"quiz-round-service/internal/app"
)

// Storage drivers for round payloads.
const (
	StorageFile     = "file"
	StorageS3       = "s3"
	StoragePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
		// File is a YAML quiz catalogue used when Postgres is not configured.
		File string `yaml:"file"`
	} `yaml:"quiz"`
	Round   Round   `yaml:"round"`
	Storage Storage `yaml:"storage"`
}

type Round struct {
	QuestionTime       string `yaml:"questionTime"`
	FeedbackDelay      string `yaml:"feedbackDelay"`
	ElapsedReference   string `yaml:"elapsedReference"`
	TickInterval       string `yaml:"tickInterval"`
	PowerUps           *bool  `yaml:"powerUps"`
	TimeoutWhileImmune string `yaml:"timeoutWhileImmune"`
}

type Storage struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
	S3     struct {
		Region          string `yaml:"region"`
		Bucket          string `yaml:"bucket"`
		Prefix          string `yaml:"prefix"`
		Endpoint        string `yaml:"endpoint"`
		AccessKeyID     string `yaml:"accessKeyID"`
		SecretAccessKey string `yaml:"secretAccessKey"`
	} `yaml:"s3"`
}

// Load reads YAML config from path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "", StorageFile, StoragePostgres:
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch app.TimeoutPolicy(c.Round.TimeoutWhileImmune) {
	case "", app.TimeoutForceAnswered, app.TimeoutAbsorb:
	default:
		return fmt.Errorf("unknown round.timeoutWhileImmune %q", c.Round.TimeoutWhileImmune)
	}
	if c.Storage.Driver == StoragePostgres && c.Postgres.URL == "" {
		return fmt.Errorf("postgres.url is required for the postgres storage driver")
	}
	return nil
}

// RoundSettings maps the round section onto app settings, keeping the
// defaults for anything left out.
func (c Config) RoundSettings() app.Settings {
	s := app.DefaultSettings()
	s.QuestionTime = TTLDuration(c.Round.QuestionTime, s.QuestionTime)
	s.FeedbackDelay = TTLDuration(c.Round.FeedbackDelay, s.FeedbackDelay)
	s.ElapsedReference = TTLDuration(c.Round.ElapsedReference, s.ElapsedReference)
	if c.Round.PowerUps != nil {
		s.PowerUpsEnabled = *c.Round.PowerUps
	}
	if c.Round.TimeoutWhileImmune != "" {
		s.TimeoutWhileImmune = app.TimeoutPolicy(c.Round.TimeoutWhileImmune)
	}
	return s
}

// TickInterval is how often live rounds are advanced.
func (c Config) TickInterval() time.Duration {
	return TTLDuration(c.Round.TickInterval, 100*time.Millisecond)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
