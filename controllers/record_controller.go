package controllers

import (
	"net/http"
	"strconv"

	"github.com/walpass/health-tracker-app/services"

	"github.com/gin-gonic/gin"
)

type RecordController struct {
	records *services.RecordService
}

func NewRecordController(records *services.RecordService) *RecordController {
	return &RecordController{records: records}
}

type RecordBody struct {
	Date   string   `json:"date" binding:"required"`
	Weight float64  `json:"weight" binding:"required"`
	Height *float64 `json:"height"`
	Notes  *string  `json:"notes"`
}

func (rc *RecordController) Create(c *gin.Context) {
	var body RecordBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := rc.records.Create(c.Request.Context(), c.GetUint("userID"), services.RecordInput{
		Date:   body.Date,
		Weight: body.Weight,
		Height: body.Height,
		Notes:  body.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// Update takes the full record body, like the edit form always submitted:
// every field counts as supplied, an absent height clears it.
func (rc *RecordController) Update(c *gin.Context) {
	id, err := recordID(c)
	if err != nil {
		return
	}

	var body RecordBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := rc.records.Update(c.Request.Context(), id, c.GetUint("userID"), services.RecordUpdate{
		Date:      &body.Date,
		Weight:    &body.Weight,
		Height:    body.Height,
		HeightSet: true,
		Notes:     body.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (rc *RecordController) Delete(c *gin.Context) {
	id, err := recordID(c)
	if err != nil {
		return
	}

	if err := rc.records.Delete(c.Request.Context(), id, c.GetUint("userID")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "record deleted"})
}

func (rc *RecordController) List(c *gin.Context) {
	order := services.OrderDateDesc
	if c.Query("order") == "asc" {
		order = services.OrderDateAsc
	}

	records, err := rc.records.List(c.Request.Context(), c.GetUint("userID"), order)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func recordID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return 0, err
	}
	return uint(id), nil
}
