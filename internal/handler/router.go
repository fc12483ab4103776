package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BuzzLyutic/todo-list/pkg/respond"
)

func NewRouter(tasks *TaskHandler, page *PageHandler) chi.Router {
	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(allowCORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/todos", func(r chi.Router) {
			r.Get("/", tasks.List)
			r.Post("/", tasks.Create)
			r.Get("/export", tasks.Export)
			r.Get("/{id}", tasks.Get)
			r.Put("/{id}", tasks.Update)
			r.Delete("/{id}", tasks.Delete)
		})
		r.Get("/stats", tasks.Stats)
	})

	if page != nil {
		r.Get("/", page.Index)
	}
	return r
}

// allowCORS пускает запросы с любого origin, как и раньше делал фронтенд.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
