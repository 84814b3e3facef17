package domain

import "time"

type Config struct {
	BotToken    string
	MaxAge      time.Duration
	ServiceName string
}
