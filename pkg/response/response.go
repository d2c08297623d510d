package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every payload carries success plus, on failure, the machine-readable
// code clients branch on and a user-facing message. Success payloads
// merge their data at the top level so handlers can shape the contract
// of each endpoint directly.

type errorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 with success:true merged over data.
func Success(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// BusinessError writes a business outcome: conventional HTTP status
// plus the application-level code.
func BusinessError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorBody{Success: false, Code: code, Message: message})
}

// ParamError writes a 400 for malformed input.
func ParamError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Success: false, Code: "VALIDATION_ERROR", Message: message})
}

// ServerError writes a 500 for unexpected failures.
func ServerError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, errorBody{Success: false, Code: "INTERNAL_ERROR", Message: message})
}
