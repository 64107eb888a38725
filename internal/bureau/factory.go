// internal/bureau/factory.go
package bureau

import (
	"time"

	"algolend-workers/internal/common/config"
	"algolend-workers/internal/common/database"
	"algolend-workers/internal/common/logger"
)

// New builds the configured bureau client. Provider "stub" needs no
// credentials; anything else goes over HTTP. A non-nil Redis client adds
// the read-through cache.
func New(cfg config.BureauConfig, rdb *database.RedisClient, log logger.Logger) Client {
	var client Client
	if cfg.Provider == "stub" {
		client = NewStubClient()
	} else {
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = NewHTTPClient(cfg.BaseURL, cfg.APIKey, timeout, log)
	}

	if rdb != nil && cfg.CacheTTLHours > 0 {
		client = NewCachedClient(client, rdb, time.Duration(cfg.CacheTTLHours)*time.Hour, log)
	}
	return client
}
