// Package active реализует HTTP-обработчик получения действующего платежа подписки.
//
// Действующим считается первый по порядку добавления платёж, чья дата окончания
// не раньше сегодняшнего дня. Если подписка не оплачена, возвращается null.
package active

import (
	"context"
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

// Handler обрабатывает запросы на получение действующего платежа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики поиска действующего платежа.
type Service interface {
	ActivePayment(ctx context.Context, subscriptionID int) (*models.Payment, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Действующий платёж
// @Description Возвращает первый платёж подписки, покрывающий текущий день, либо null.
// @Tags Payments
// @Produce  json
// @Param id path int true "ID подписки"
// @Success 200 {object} map[string]any "Действующий платёж или null"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/payments/active [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.active"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subscriptionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	res, err := h.service.ActivePayment(r.Context(), subscriptionID)
	if err != nil {
		log.Error("failed to find active payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not find active payment"))
		return
	}

	log.Info("success to find active payment", slog.Int("subscription_id", subscriptionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment": res,
	}))
}
