// app/seenmw.go
package app

import (
	"log/slog"
	"time"

	"Gin_postgres_redis_library/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// TouchLastSeen writes users.last_seen_at at most once per throttle window,
// using a Redis SETNX key as the gate.
func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("userID")
		if uid == "" {
			c.Next()
			return
		}

		key := "lib:user:lastseen:" + uid
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			if err := repo.TouchUserSeen(c, uid); err != nil {
				slog.Debug("touch last seen", "user", uid, "err", err)
			}
		}
		c.Next()
	}
}
