package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const defaultAPIURL = "http://localhost:50577"

type Config struct {
	BotToken    string
	TargetGuild string
	APIURL      string
	RedisURL    string
	LogLevel    log.Level
}

// LoadConfig reads a .env file if one exists, then the environment.
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	config := Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		TargetGuild: os.Getenv("BOT_TARGET_GUILD"),
		APIURL:      strings.TrimRight(os.Getenv("FOOD_API_URL"), "/"),
		RedisURL:    os.Getenv("REDIS_URL"),
		LogLevel:    log.InfoLevel,
	}

	if config.BotToken == "" {
		return Config{}, errors.New("BOT_TOKEN is not set")
	}
	if config.APIURL == "" {
		config.APIURL = defaultAPIURL
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		config.LogLevel = parsed
	}

	return config, nil
}
