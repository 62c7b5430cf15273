// Package list реализует HTTP-обработчик для получения списка клиентов.
//
// Список упорядочен по фамилии и поддерживает пагинацию через
// query-параметры limit и offset.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/repair-crm/internal/http/response"
	"github.com/magabrotheeeer/repair-crm/internal/lib/sl"
	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// Handler обрабатывает запросы на получение списка клиентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка клиентов.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Client, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список клиентов
// @Description Возвращает клиентов, упорядоченных по фамилии, с пагинацией.
// @Tags Clients
// @Produce  json
// @Param limit query int false "Максимум записей (по умолчанию 50)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список клиентов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	res, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list clients", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list clients"))
		return
	}

	log.Info("success to list clients", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"clients": res,
	}))
}
