// Package report реализует HTTP-обработчик печатной формы заявки.
//
// Обработчик собирает агрегат заявки, строит PDF-документ и отдаёт его
// как application/pdf.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/repair-crm/internal/http/response"
	"github.com/magabrotheeeer/repair-crm/internal/lib/sl"
	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// Service описывает интерфейс бизнес-логики сборки агрегата заявки.
type Service interface {
	Report(ctx context.Context, id int) (*models.TicketReport, error)
}

// Builder строит PDF-документ по агрегату заявки.
type Builder interface {
	BuildTicketPDF(report *models.TicketReport) ([]byte, error)
}

// Handler обрабатывает запросы на печатную форму заявки.
type Handler struct {
	log     *slog.Logger
	service Service
	builder Builder
}

// New создает новый Handler с переданными логгером, сервисом и сборщиком PDF.
func New(log *slog.Logger, service Service, builder Builder) *Handler {
	return &Handler{log: log, service: service, builder: builder}
}

// ServeHTTP godoc
// @Summary Печатная форма заявки
// @Description Возвращает PDF-документ заявки с данными клиента, устройства и стоимостью.
// @Tags Tickets
// @Produce  application/pdf
// @Param id path int true "ID заявки"
// @Success 200 {file} binary "PDF-документ"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tickets/{id}/report [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ticket.report"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	rep, err := h.service.Report(r.Context(), id)
	if err != nil {
		log.Error("failed to build ticket report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build ticket report"))
		return
	}

	pdf, err := h.builder.BuildTicketPDF(rep)
	if err != nil {
		log.Error("failed to render pdf", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not render pdf"))
		return
	}

	log.Info("success to build ticket report", slog.Int("id", id))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=ticket-%d.pdf", id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Error("failed to write pdf response", sl.Err(err))
	}
}
