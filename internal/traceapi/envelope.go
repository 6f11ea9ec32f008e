package traceapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope reasons.
const (
	ReasonInvalidAlgorithm = "Invalid algorithm type."
	ReasonNotFound         = "Resource was not found."
	ReasonInvalidBody      = "Invalid request body."
	ReasonInvalidGrid      = "Invalid grid."
	ReasonInternal         = "Internal error."
)

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Status  string   `json:"status"`
	Reason  string   `json:"reason"`
	Details []string `json:"details,omitempty"`
}

func errorBody(reason string, details ...string) ErrorResponse {
	return ErrorResponse{Status: statusError, Reason: reason, Details: details}
}

// invalidAlgorithm answers with HTTP 200, like the rest of the contract.
func invalidAlgorithm(c *gin.Context) {
	c.JSON(http.StatusOK, errorBody(ReasonInvalidAlgorithm))
}

// badRequest answers 400 with one detail line per failed validation rule.
func badRequest(c *gin.Context, reason string, err error) {
	c.JSON(http.StatusBadRequest, errorBody(reason, validationDetails(err)...))
}

func validationDetails(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			details = append(details, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			details = append(details, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return details
}

// NotFound is the NoRoute handler.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorBody(ReasonNotFound))
}
