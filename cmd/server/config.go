package main

import "time"

type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,default=info"`
	Host              string        `env:"HOST,default=localhost"`
	Port              int           `env:"PORT,default=8080"`
	TranslateAPIKey   string        `env:"TRANSLATE_API_KEY,required=true"`
	TranslateTimeout  time.Duration `env:"TRANSLATE_TIMEOUT,default=5s"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	CensoredWords     []string      `env:"CENSORED_WORDS"`
	CensoredChar      string        `env:"CENSORED_CHARACTER,default=*"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}
