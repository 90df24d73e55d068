// controllers/reminder.go
package controllers

import (
	"net/http"

	"crml-backend/models"
	"crml-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReminderLogQuery narrows the reminder history
type ReminderLogQuery struct {
	AppointmentID *uint  `form:"appointmentId"`
	CustomerID    *uint  `form:"customerId"`
	Status        string `form:"status" binding:"omitempty,oneof=sent failed"`
}

type ReminderController struct {
	db *gorm.DB
}

func NewReminderController(db *gorm.DB) *ReminderController {
	return &ReminderController{db: db}
}

// GetReminderLogs lists reminder attempts, newest first
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	var query ReminderLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	tx := rc.db.WithContext(c.Request.Context())
	if query.AppointmentID != nil {
		tx = tx.Where("appointment_id = ?", *query.AppointmentID)
	}
	if query.CustomerID != nil {
		tx = tx.Where("customer_id = ?", *query.CustomerID)
	}
	if query.Status != "" {
		tx = tx.Where("status = ?", query.Status)
	}

	logs := []models.ReminderLog{}
	if err := tx.Order("sent_at DESC, id DESC").Find(&logs).Error; err != nil {
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
