// controllers/borrow_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/library"
	"Gin_postgres_redis_library/models"

	"github.com/gin-gonic/gin"
)

type BorrowController struct{ *Srv }

func NewBorrowController(s *Srv) *BorrowController { return &BorrowController{Srv: s} }

// POST /api/borrows/request/:bookId
func (bc *BorrowController) Request(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	b, err := bc.Borrows.RequestBorrow(c.Request.Context(), c.Param("bookId"), userID)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// POST /api/borrows/cancel/:borrowId
func (bc *BorrowController) Cancel(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	b, err := bc.Borrows.CancelRequest(c.Request.Context(), c.Param("borrowId"), userID)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/borrows/:id/accept
func (bc *BorrowController) Accept(c *gin.Context) {
	var in library.AcceptBorrowInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	b, err := bc.Borrows.AcceptBorrow(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/borrows/:id/taken
func (bc *BorrowController) Taken(c *gin.Context) {
	var in library.MarkTakenInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	b, err := bc.Borrows.MarkTaken(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/borrows/:id/returned
func (bc *BorrowController) Returned(c *gin.Context) {
	var in library.MarkReturnedInput
	if err := bindOptionalJSON(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	b, err := bc.Borrows.MarkReturned(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/borrows/:id
func (bc *BorrowController) Get(c *gin.Context) {
	b, err := bc.Borrows.GetBorrow(c.Request.Context(), c.Param("id"))
	if err != nil {
		bc.writeError(c, err)
		return
	}
	// readers only see their own records
	if uid, _ := currentUser(c); !c.GetBool("isAdmin") && b.UserID != uid {
		c.JSON(http.StatusNotFound, app.H{"error": "borrow not found", "kind": library.KindNotFound.String()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/borrows?status=&userId=&bookId=&overdue=&page=&size=
func (bc *BorrowController) List(c *gin.Context) {
	page, size := pageParams(c)
	q := db.BorrowQuery{
		UserID:  c.Query("userId"),
		BookID:  c.Query("bookId"),
		Status:  models.BorrowStatus(c.Query("status")),
		Overdue: c.Query("overdue") == "true",
		Page:    page,
		Size:    size,
	}
	if !c.GetBool("isAdmin") {
		q.UserID, _ = currentUser(c)
	}

	res, err := bc.Borrows.ListBorrows(c.Request.Context(), q)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
