package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
	"github.com/gin-gonic/gin"
)

// RespondWithServiceError maps a command/query error onto the API taxonomy:
// entity validation failures are 400, unknown ids are 404 (with notFoundMsg),
// and everything else is a 500 whose cause is logged, never returned.
func RespondWithServiceError(c *gin.Context, err error, notFoundMsg string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, BadRequestErrorResponse{
			Message: verr.Message,
			Details: []ValidationError{{Field: verr.Field, Message: verr.Message, Type: verr.Code}},
		})
	case errors.Is(err, store.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, notFoundMsg)
	default:
		if store.IsUniqueViolation(err) {
			log.Printf("[%s] unique constraint violated: %v", RequestID(c), err)
		} else {
			log.Printf("[%s] unexpected error: %v", RequestID(c), err)
		}
		RespondWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
