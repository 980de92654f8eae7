package routes

import (
	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	uc := controllers.GetUserController(s)
	borrowCtl := controllers.NewBorrowController(s)
	donationCtl := controllers.NewDonationController(s)
	statsCtl := controllers.NewStatsController(s)

	authMW := app.AuthRequired(s.GetAppSess(), s.Repo, a.Config)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, a.Config.SeenThrottle)

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	api := r.Group("/api", authMW, seenMW)
	{
		api.GET("/me", uc.Me)
		api.POST("/logout", uc.Logout)
		api.GET("/notifications", uc.ListNotifications)
		api.GET("/users/:id/books", uc.Books)
	}

	// ------------------------------
	// borrow workflow
	// ------------------------------
	borrows := api.Group("/borrows")
	{
		borrows.GET("", borrowCtl.List) // ?status=&userId=&bookId=&overdue=true
		borrows.GET("/:id", borrowCtl.Get)
		borrows.POST("/request/:bookId", borrowCtl.Request)
		borrows.POST("/cancel/:borrowId", borrowCtl.Cancel)
	}
	borrowsAdmin := api.Group("/borrows", adminMW)
	{
		borrowsAdmin.POST("/:id/accept", borrowCtl.Accept)
		borrowsAdmin.POST("/:id/taken", borrowCtl.Taken)
		borrowsAdmin.POST("/:id/returned", borrowCtl.Returned)
	}

	// ------------------------------
	// donations
	// ------------------------------
	api.GET("/donations", donationCtl.List)
	api.GET("/donations/:id", donationCtl.Get)
	api.POST("/donations", adminMW, donationCtl.Create)

	// ------------------------------
	// stats
	// ------------------------------
	stats := api.Group("/stats")
	{
		stats.GET("", statsCtl.Summary)
		stats.GET("/donors", statsCtl.Donors) // ?q=&page=&size=
	}
}
