// controllers/donation_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/library"
	"Gin_postgres_redis_library/models"

	"github.com/gin-gonic/gin"
)

type DonationController struct{ *Srv }

func NewDonationController(s *Srv) *DonationController { return &DonationController{Srv: s} }

// POST /api/donations
func (dc *DonationController) Create(c *gin.Context) {
	var in library.CreateDonationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	inst, err := dc.Donations.CreateDonation(c.Request.Context(), in)
	if err != nil {
		dc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inst)
}

// GET /api/donations/:id
func (dc *DonationController) Get(c *gin.Context) {
	inst, err := dc.Donations.GetDonation(c.Request.Context(), c.Param("id"))
	if err != nil {
		dc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

// GET /api/donations?bookId=&donorId=&status=&page=&size=
func (dc *DonationController) List(c *gin.Context) {
	page, size := pageParams(c)
	res, err := dc.Donations.ListDonations(c.Request.Context(), db.InstanceQuery{
		BookID:  c.Query("bookId"),
		DonorID: c.Query("donorId"),
		Status:  models.InstanceStatus(c.Query("status")),
		Page:    page,
		Size:    size,
	})
	if err != nil {
		dc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
