package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/models"

	"github.com/gin-gonic/gin"
)

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users/:id/books?stage=
func (uc *UserController) Books(c *gin.Context) {
	id := c.Param("id")
	if uid, _ := currentUser(c); id != uid && !c.GetBool("isAdmin") {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	if stage := c.Query("stage"); stage != "" {
		ids, err := uc.Tracker.Books(c.Request.Context(), id, models.Stage(stage))
		if err != nil {
			uc.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.H{"stage": stage, "books": ids})
		return
	}
	sets, err := uc.Tracker.Sets(c.Request.Context(), id)
	if err != nil {
		uc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sets)
}

// GET /api/notifications?limit=
func (uc *UserController) ListNotifications(c *gin.Context) {
	uid, _ := currentUser(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	ns, err := uc.Notifications.List(c.Request.Context(), uid, limit)
	if err != nil {
		uc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ns})
}

// GET /api/me
func (uc *UserController) Me(c *gin.Context) {
	uid, _ := currentUser(c)
	u, err := uc.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u, "isAdmin": c.GetBool("isAdmin")})
}

// POST /api/logout
func (uc *UserController) Logout(c *gin.Context) {
	if sid := app.SessionID(c); sid != "" {
		_ = uc.AppSess.Delete(c.Request.Context(), sid)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(uc.Cfg.WebOrigin, "https://"),
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}
