package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"scheduleright/internal/store"
	"scheduleright/transport/http/response"
)

type Handler struct {
	store store.Store
}

func New(docStore store.Store) Handler {
	return Handler{
		store: docStore,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

type Status struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Database string `json:"database"`
}

// Health reports liveness and store reachability.
// @Summary Health check
// @Description Report server liveness and document store reachability.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Status] "Healthy"
// @Failure 503 {object} response.Message "Unhealthy"
// @Router /health [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	info, err := handler.store.Info(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("health check failed to reach document store")

		response.WithUnhealthy(w)

		return
	}

	response.WithJSON(w, http.StatusOK, Status{
		Status:   "ok",
		Backend:  info.Backend,
		Database: info.Name,
	})
}
