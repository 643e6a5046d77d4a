package config

import "os"

func IsDebug() bool {
	return os.Getenv("POOLBOT_DEBUG") == "1"
}
