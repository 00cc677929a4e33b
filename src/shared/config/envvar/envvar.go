package envvar

import (
	"fmt"
	"os"
)

const (
	ENVIRONMENT                      = "ENVIRONMENT"
	AWS_ACCESS_KEY_ID                = "AWS_ACCESS_KEY_ID"
	AWS_SECRET_ACCESS_KEY            = "AWS_SECRET_ACCESS_KEY"
	RABBITMQ_URL                     = "RABBITMQ_URL"
	RABBITMQ_QUEUE_NAME              = "RABBITMQ_QUEUE_NAME"
	GOOGLE_CLOUD_KEY                 = "GOOGLE_CLOUD_KEY"
	GOOGLE_CLOUD_STORAGE_BUCKET_NAME = "GOOGLE_CLOUD_STORAGE_BUCKET_NAME"
	SPLEETER_BIN_PATH                = "SPLEETER_BIN_PATH"
	SPLEETER_WORKING_DIR_PATH        = "SPLEETER_WORKING_DIR_PATH"
	PYTHON_BIN_PATH                  = "PYTHON_BIN_PATH"
	STEM_OUTPUT_DIR_PATH             = "STEM_OUTPUT_DIR_PATH"
	ALLOWED_FE_ORIGINS               = "ALLOWED_FE_ORIGINS"
)

func MustGet(key string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet {
		panic(fmt.Sprintf("No env variable found for key %s", key))
	}

	if val == "" {
		panic(fmt.Sprintf("Env variable is empty for key %s", key))
	}

	return val
}

// Get returns the value for key, or fallback when it's unset or empty.
func Get(key string, fallback string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet || val == "" {
		return fallback
	}

	return val
}
