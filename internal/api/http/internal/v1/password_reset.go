package v1

import (
	"net/http"
	"time"

	"github.com/agro-export/backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) initPasswordResetRoutes(api *gin.RouterGroup) {
	reset := api.Group("/password-reset")

	reset.POST("/request", h.requestPasswordReset)
	reset.POST("/resend", h.resendPasswordResetCode)
	reset.POST("/verify", h.verifyPasswordResetCode)
	reset.POST("/reset", h.resetPassword)
}

type passwordResetEmailRequest struct {
	Email string `json:"email" binding:"required" example:"user@example.com"`
}

type passwordResetVerifyRequest struct {
	Email string `json:"email" binding:"required" example:"user@example.com"`
	OTP   string `json:"otp" binding:"required,otpcode" example:"123456"`
}

type passwordResetRequest struct {
	Email       string `json:"email" binding:"required" example:"user@example.com"`
	OTP         string `json:"otp" binding:"required,otpcode" example:"123456"`
	NewPassword string `json:"newPassword" binding:"required,strongpassword" example:"Str0ngPass"`
}

type passwordResetIssueResponse struct {
	Ok               bool `json:"ok"`
	ExpiresInSeconds int  `json:"expires_in_seconds"`
} // @name PasswordResetIssueResponse

type passwordResetVerifyResponse struct {
	Ok               bool   `json:"ok"`
	State            string `json:"state"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
	Countdown        string `json:"countdown"`
} // @name PasswordResetVerifyResponse

type passwordResetDoneResponse struct {
	Ok    bool   `json:"ok"`
	State string `json:"state"`
} // @name PasswordResetDoneResponse

// @Summary Request password reset code
// @Tags Password reset
// @Description Sends a six digit code to the email if an account exists. The answer does not reveal whether it does.
// @ModuleID requestPasswordReset
// @Accept  json
// @Produce  json
// @Param input body passwordResetEmailRequest true "email"
// @Success 200 {object} passwordResetIssueResponse
// @Failure 400 {object} ErrorStruct
// @Failure 429 {object} ErrorStruct
// @Failure 502 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /password-reset/request [post]
func (h *Handler) requestPasswordReset(c *gin.Context) {
	var inp passwordResetEmailRequest
	if err := c.ShouldBindJSON(&inp); err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.PasswordReset.RequestReset(c.Request.Context(), inp.Email)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, passwordResetIssueResponse{Ok: true, ExpiresInSeconds: seconds(res.ExpiresIn)})
}

// @Summary Resend password reset code
// @Tags Password reset
// @Description Issues a new code. Any previously sent code stops working.
// @ModuleID resendPasswordResetCode
// @Accept  json
// @Produce  json
// @Param input body passwordResetEmailRequest true "email"
// @Success 200 {object} passwordResetIssueResponse
// @Failure 400 {object} ErrorStruct
// @Failure 429 {object} ErrorStruct
// @Failure 502 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /password-reset/resend [post]
func (h *Handler) resendPasswordResetCode(c *gin.Context) {
	var inp passwordResetEmailRequest
	if err := c.ShouldBindJSON(&inp); err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.PasswordReset.ResendCode(c.Request.Context(), inp.Email)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, passwordResetIssueResponse{Ok: true, ExpiresInSeconds: seconds(res.ExpiresIn)})
}

// @Summary Verify password reset code
// @Tags Password reset
// @Description Checks the code without using it up and returns the time left.
// @ModuleID verifyPasswordResetCode
// @Accept  json
// @Produce  json
// @Param input body passwordResetVerifyRequest true "email and code"
// @Success 200 {object} passwordResetVerifyResponse
// @Failure 400 {object} ErrorStruct
// @Failure 429 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /password-reset/verify [post]
func (h *Handler) verifyPasswordResetCode(c *gin.Context) {
	var inp passwordResetVerifyRequest
	if err := c.ShouldBindJSON(&inp); err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.PasswordReset.VerifyCode(c.Request.Context(), inp.Email, inp.OTP)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, passwordResetVerifyResponse{
		Ok:               true,
		State:            string(res.State),
		ExpiresInSeconds: seconds(res.Remaining),
		Countdown:        domain.FormatCountdown(res.Remaining),
	})
}

// @Summary Reset password
// @Tags Password reset
// @Description Sets a new password using a valid code. The code can be used once.
// @ModuleID resetPassword
// @Accept  json
// @Produce  json
// @Param input body passwordResetRequest true "email, code and new password"
// @Success 200 {object} passwordResetDoneResponse
// @Failure 400 {object} ErrorStruct
// @Failure 404 {object} ErrorStruct
// @Failure 429 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /password-reset/reset [post]
func (h *Handler) resetPassword(c *gin.Context) {
	var inp passwordResetRequest
	if err := c.ShouldBindJSON(&inp); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.PasswordReset.ResetPassword(c.Request.Context(), inp.Email, inp.OTP, inp.NewPassword); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, passwordResetDoneResponse{Ok: true, State: string(domain.StateComplete)})
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
