// controllers/srv.go
package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/config"
	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/library"
	"Gin_postgres_redis_library/notify"
	"Gin_postgres_redis_library/session"

	"github.com/gin-gonic/gin"
)

type Srv struct {
	Repo          *db.Repo
	Borrows       *library.BorrowService
	Donations     *library.DonationService
	Tracker       *library.Tracker
	Stats         *library.Stats
	Notifications *notify.Sink
	AppSess       *session.AppSessionStore
	Cfg           config.Config
	Log           *slog.Logger
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:          a.Repo,
		Borrows:       a.Borrows,
		Donations:     a.Donations,
		Tracker:       a.Tracker,
		Stats:         a.Stats,
		Notifications: a.Notifications,
		AppSess:       a.AppSessions(),
		Cfg:           a.Config,
		Log:           a.Log,
	}
}

func (s *Srv) GetAppSess() *session.AppSessionStore { return s.AppSess }

// --- helpers ---

// writeError maps a library error onto its HTTP status. Internal causes are
// logged but never echoed to the client.
func (s *Srv) writeError(c *gin.Context, err error) {
	e := library.AsError(err)
	if e == nil {
		e = library.Internalf(err, "unexpected error")
	}
	status := library.StatusCode(e)
	if status >= http.StatusInternalServerError {
		s.Log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
	}
	c.JSON(status, app.H{"error": e.Message, "kind": e.Kind.String()})
}

func currentUser(c *gin.Context) (string, bool) {
	uid := c.GetString("userID")
	return uid, uid != ""
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, v any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return page, size
}
