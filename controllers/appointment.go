package controllers

import (
	"net/http"
	"time"

	"crml-backend/models"
	"crml-backend/repository"
	"crml-backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateAppointmentInput defines the expected JSON structure for creating an appointment
type CreateAppointmentInput struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Kind       string    `json:"kind"`
	CustomerID uint      `json:"customerId" binding:"required"`
}

// UpdateAppointmentInput carries the full replacement, id included
type UpdateAppointmentInput struct {
	ID         uint      `json:"id" binding:"required"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Kind       string    `json:"kind"`
	CustomerID uint      `json:"customerId" binding:"required"`
}

// AppointmentResponse is the appointment without its embedded customer.
type AppointmentResponse struct {
	ID         uint      `json:"id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Kind       string    `json:"kind"`
	CustomerID uint      `json:"customerId"`
}

func NewAppointmentResponse(a *models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         a.ID,
		Start:      a.Start,
		End:        a.End,
		Kind:       a.Kind,
		CustomerID: a.CustomerID,
	}
}

func (in CreateAppointmentInput) ToAppointment() *models.Appointment {
	return &models.Appointment{
		Start:      in.Start,
		End:        in.End,
		Kind:       in.Kind,
		CustomerID: in.CustomerID,
	}
}

func (in UpdateAppointmentInput) ToAppointment() *models.Appointment {
	return &models.Appointment{
		ID:         in.ID,
		Start:      in.Start,
		End:        in.End,
		Kind:       in.Kind,
		CustomerID: in.CustomerID,
	}
}

type AppointmentController struct {
	repo repository.Repository[models.Appointment]
}

func NewAppointmentController(repo repository.Repository[models.Appointment]) *AppointmentController {
	return &AppointmentController{repo: repo}
}

// GetAppointments lists appointments filtered by customer, end time and limit
func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	var query repository.AppointmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	appointments, err := ac.repo.GetAll(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Appointment not found")
		return
	}

	results := make([]AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		results = append(results, NewAppointmentResponse(&appointments[i]))
	}

	c.JSON(http.StatusOK, results)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	id, ok := parseID(c, "appointment")
	if !ok {
		return
	}

	appointment, err := ac.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(appointment))
}

// CreateAppointment books a new appointment for a customer
func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.End.Before(input.Start) {
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment end precedes its start")
		return
	}

	appointment, err := ac.repo.Create(c.Request.Context(), input.ToAppointment())
	if err != nil {
		respondError(c, err, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(appointment))
}

// UpdateAppointment replaces the appointment identified by the body id
func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.End.Before(input.Start) {
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment end precedes its start")
		return
	}

	appointment, err := ac.repo.Update(c.Request.Context(), input.ID, input.ToAppointment())
	if err != nil {
		respondError(c, err, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(appointment))
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c, "appointment")
	if !ok {
		return
	}

	appointment, err := ac.repo.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(appointment))
}
