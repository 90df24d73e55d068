package controllers

import (
	"net/http"

	"crml-backend/models"
	"crml-backend/repository"
	"crml-backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	HasWA bool   `json:"hasWA"`
}

func (in CreateCustomerInput) ToCustomer() *models.Customer {
	return &models.Customer{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		HasWA: in.HasWA,
	}
}

type CustomerController struct {
	repo repository.Repository[models.Customer]
}

func NewCustomerController(repo repository.Repository[models.Customer]) *CustomerController {
	return &CustomerController{repo: repo}
}

// GetCustomers lists customers, optionally filtered by name
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	var query repository.CustomerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	customers, err := cc.repo.GetAll(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "customer")
	if !ok {
		return
	}

	customer, err := cc.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// CreateCustomer stores a new customer
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := cc.repo.Create(c.Request.Context(), input.ToCustomer())
	if err != nil {
		respondError(c, err, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer replaces an existing customer
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "customer")
	if !ok {
		return
	}

	var replacement models.Customer
	if err := c.ShouldBindJSON(&replacement); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := cc.repo.Update(c.Request.Context(), id, &replacement)
	if err != nil {
		respondError(c, err, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer and returns its last known value
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "customer")
	if !ok {
		return
	}

	customer, err := cc.repo.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, customer)
}
