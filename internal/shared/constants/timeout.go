package constants

import "time"

const (
	HTTPTimeout         = 30 * time.Second
	PollInterval        = 100 * time.Millisecond
	RedisDialTimeout    = 5 * time.Second
	DatabaseConnTimeout = 5 * time.Second
	MQTTConnectTimeout  = 10 * time.Second
	MQTTPublishTimeout  = 5 * time.Second
	ResponseCacheTTL    = 10 * time.Minute
)

const (
	DefaultAPIURL     = "https://api.globalping.io/v1"
	DefaultLimit      = 1
	DefaultMQTTTopic  = "globalping/measurements"
	DefaultHistoryMax = 10
)
