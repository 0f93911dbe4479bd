package utils

import "github.com/gin-gonic/gin"

// JSONResponse is the envelope every API handler writes: Code 0 with
// Message "success" on the happy path, a 4xxxx/5xxxx business code with a
// short English message otherwise. Data is omitted when empty, so error
// bodies stay two fields.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes the envelope with an explicit HTTP status.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success writes a 200 envelope around the handler's payload.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "success", data)
}

// Error writes an error envelope; code is the business code, status the HTTP one.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}
