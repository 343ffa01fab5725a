package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-app/kintai-backend-go/internal/domain/report"
	"github.com/kintai-app/kintai-backend-go/internal/domain/shift"
	"github.com/kintai-app/kintai-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	BreakStart(w http.ResponseWriter, r *http.Request)
	BreakEnd(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Daily(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	shiftService  shift.ShiftService
	reportService report.ReportService
}

func NewAttendanceHandler(shiftService shift.ShiftService, reportService report.ReportService) AttendanceHandler {
	return &AttendanceHandlerImpl{
		shiftService:  shiftService,
		reportService: reportService,
	}
}

// ClockIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shiftService.ClockIn(r.Context())
	if err != nil {
		slog.Error("ClockIn service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Clocked in", resp)
}

// ClockOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shiftService.ClockOut(r.Context())
	if err != nil {
		slog.Error("ClockOut service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Clocked out", resp)
}

// BreakStart implements AttendanceHandler.
func (h *AttendanceHandlerImpl) BreakStart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shiftService.BreakStart(r.Context())
	if err != nil {
		slog.Error("BreakStart service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Break started", resp)
}

// BreakEnd implements AttendanceHandler.
func (h *AttendanceHandlerImpl) BreakEnd(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shiftService.BreakEnd(r.Context())
	if err != nil {
		slog.Error("BreakEnd service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Break ended", resp)
}

// Today implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shiftService.Today(r.Context())
	if err != nil {
		slog.Error("Today service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Daily implements AttendanceHandler. Resolves the caller's own day.
func (h *AttendanceHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		response.Unauthorized(w, "invalid token claims")
		return
	}

	date := r.URL.Query().Get("date")
	resp, err := h.reportService.Daily(r.Context(), userID, date)
	if err != nil {
		slog.Error("Daily service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
