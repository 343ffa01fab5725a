package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-app/kintai-backend-go/internal/domain/report"
	"github.com/kintai-app/kintai-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Monthly(w http.ResponseWriter, r *http.Request)
	MonthlyCSV(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// reportUserID resolves which user the report covers: the caller, unless an
// admin asked for someone else via the user_id query parameter.
func reportUserID(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", err
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	requested := r.URL.Query().Get("user_id")
	if requested == "" || requested == userID {
		return userID, nil
	}

	isAdmin, _ := claims["is_admin"].(bool)
	if !isAdmin {
		return "", fmt.Errorf("user_id override requires admin")
	}
	return requested, nil
}

// Monthly implements ReportHandler.
func (h *ReportHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	userID, err := reportUserID(r)
	if err != nil {
		response.Forbidden(w, err.Error())
		return
	}

	month := r.URL.Query().Get("month")
	resp, err := h.reportService.Monthly(r.Context(), userID, month)
	if err != nil {
		slog.Error("Monthly service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// MonthlyCSV implements ReportHandler.
func (h *ReportHandlerImpl) MonthlyCSV(w http.ResponseWriter, r *http.Request) {
	userID, err := reportUserID(r)
	if err != nil {
		response.Forbidden(w, err.Error())
		return
	}

	month := r.URL.Query().Get("month")
	data, filename, err := h.reportService.MonthlyCSV(r.Context(), userID, month)
	if err != nil {
		slog.Error("MonthlyCSV service error", "error", err)
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
