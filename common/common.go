package common

import (
	"os"

	"github.com/gin-gonic/gin"
)

var (
	// ProjectID is the GCP project the service writes logs and artifacts to.
	ProjectID string

	// Production flag indicating if app is running the production backend
	Production bool

	// IsLocalhost flag indicating if app is running on localhost
	IsLocalhost bool
)

func init() {
	ProjectID = GetEnv("GOOGLE_CLOUD_PROJECT", "nittany-craft-dev")
	IsLocalhost = gin.Mode() != gin.ReleaseMode
	Production = !IsLocalhost && os.Getenv("GAE_VERSION") != ""
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}
