package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"crml-backend/repository"
	"crml-backend/services"
	"crml-backend/storage"
	"crml-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps repository, storage and service errors onto HTTP statuses.
func respondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrIDMismatch), errors.Is(err, storage.ErrInvalidName):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrFilesystem):
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Attachment storage error")
	default:
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// parseID reads the :id path parameter, answering 400 when it is not a
// positive integer.
func parseID(c *gin.Context, entity string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+entity+" ID format")
		return 0, false
	}
	return uint(id), true
}
