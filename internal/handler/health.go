package handler

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/tingleshq/tingles/internal/handler/respond"
)

type healthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *healthHandler {
	return &healthHandler{db: db}
}

func (h *healthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	err := h.db.PingContext(r.Context())
	if err != nil {
		respond.Error(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
