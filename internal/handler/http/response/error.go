package response

import (
	"errors"
	"net/http"

	"github.com/kintai-app/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-app/kintai-backend-go/internal/domain/correction"
	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
	"github.com/kintai-app/kintai-backend-go/internal/domain/user"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Shift punch state errors
	case errors.Is(err, shift.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in for this work date")
	case errors.Is(err, shift.ErrNotClockedIn):
		Conflict(w, "Not clocked in")
	case errors.Is(err, shift.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out")
	case errors.Is(err, shift.ErrBreakAlreadyOpen):
		Conflict(w, "A break is already open")
	case errors.Is(err, shift.ErrNoOpenBreak):
		Conflict(w, "No open break to end")
	case errors.Is(err, shift.ErrBreakStillOpen):
		Conflict(w, "Cannot clock out while a break is open")
	case errors.Is(err, shift.ErrLockedByPendingCorrection):
		Conflict(w, "Attendance is locked by a pending correction")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Correction domain errors
	case errors.Is(err, correction.ErrApplicationNotFound):
		NotFound(w, "Correction application not found")
	case errors.Is(err, correction.ErrAlreadyApproved):
		Conflict(w, "Correction application already approved")
	case errors.Is(err, correction.ErrNotOwned):
		Forbidden(w, "Correction application belongs to another user")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
