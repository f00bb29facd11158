package env

import (
	"os"
	"strconv"
	"time"
)

func Get(key string) string {
	return os.Getenv(key)
}

func GetDefault(key string, defaultVal string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultVal
}

// GetIntDefault อ่านค่า env เป็น int ถ้าไม่มีหรือแปลงไม่ได้ให้ใช้ค่า default
func GetIntDefault(key string, defaultVal int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultVal
	}
	return n
}

func GetBoolDefault(key string, defaultVal bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultVal
	}
	return b
}

func GetDurationDefault(key string, defaultVal time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultVal
	}
	return d
}
