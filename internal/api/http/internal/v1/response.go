package v1

import (
	"errors"

	"github.com/agro-export/backend/pkg/logger"
	customValidator "github.com/agro-export/backend/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func errorResponse(c *gin.Context, code ErrorCode) {
	c.AbortWithStatusJSON(statusOf(code), getErrorStruct(code))
}

func serviceErrorResponse(c *gin.Context, err error) {
	code, _ := errorCodeOf(err)
	if code == InternalErrorCode {
		logger.Error("password reset request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	errorResponse(c, code)
}

// fieldCodes ranks the request fields; the first failing one names the error.
var fieldCodes = []struct {
	field string
	code  ErrorCode
}{
	{"email", InvalidEmailCode},
	{"newPassword", WeakPasswordCode},
	{"otp", InvalidCodeCode},
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		errorResponse(c, InvalidRequestCode)
		return
	}

	out := make([]ValidationError, len(verr))
	for i, ferr := range verr {
		out[i] = ValidationError{FieldKey: ferr.Field(), ErrorCode: codeForField(ferr.Field(), ferr.Tag())}
	}

	code := InvalidRequestCode
	for _, fc := range fieldCodes {
		if hasField(out, fc.field) {
			code = fc.code
			break
		}
	}

	c.AbortWithStatusJSON(statusOf(code), ValidationErrorStruct{
		ErrorCode: code,
		Errors:    out,
	})
}

func codeForField(field, tag string) ErrorCode {
	switch tag {
	case customValidator.TagOTPCode:
		return InvalidCodeCode
	case customValidator.TagStrongPassword:
		return WeakPasswordCode
	}
	for _, fc := range fieldCodes {
		if fc.field == field {
			return fc.code
		}
	}

	return InvalidRequestCode
}

func hasField(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.FieldKey == field {
			return true
		}
	}

	return false
}
