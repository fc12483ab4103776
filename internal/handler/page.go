package handler

import (
	"bytes"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/service"
	"github.com/BuzzLyutic/todo-list/internal/view"
	"github.com/BuzzLyutic/todo-list/pkg/respond"
)

// PageHandler serves the browser page rendered from the current table.
type PageHandler struct {
	service    *service.TaskService
	logger     *zap.Logger
	dateLayout string
	poll       time.Duration
}

func NewPageHandler(srv *service.TaskService, logger *zap.Logger, dateLayout string, poll time.Duration) *PageHandler {
	return &PageHandler{
		service:    srv,
		logger:     logger,
		dateLayout: dateLayout,
		poll:       poll,
	}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	filter, err := view.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		h.logger.Debug("unknown filter, showing all", zap.Error(err))
	}

	tasks, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("store error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	page := view.Render(tasks, filter, h.dateLayout)
	if err := view.RenderHTML(&buf, page, view.Summarize(tasks), h.poll); err != nil {
		h.logger.Error("render page", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
