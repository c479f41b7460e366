package console

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/askdata/askdata/internal/askclient"
	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/present"
)

//go:embed assets
var assetsFS embed.FS

var pageTemplate = template.Must(template.ParseFS(assetsFS, "assets/index.html.tmpl"))

type Asker interface {
	Ask(ctx context.Context, question string) (askclient.Answer, error)
}

type Dependencies struct {
	Logger *slog.Logger
	Client Asker
}

type page struct {
	Question string
	Error    string
	SQL      string
	Answered bool
	HasTable bool
	Table    present.Table
	NoData   string
	Chart    template.HTML
}

func NewHandler(cfg config.ConsoleConfig, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/style.css", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "service": "askdata-console", "api_base_url": cfg.APIBaseURL})
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		render(w, r, deps.Logger, page{NoData: present.NoDataMessage})
	})

	mux.HandleFunc("POST /{$}", func(w http.ResponseWriter, r *http.Request) {
		handleAsk(deps, w, r)
	})

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	wrapped := http.Handler(mux)
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

// handleAsk starts from an empty page on every submission so no answer, SQL
// or error from a previous question survives.
func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	view := page{NoData: present.NoDataMessage}
	if err := r.ParseForm(); err != nil {
		view.Error = "invalid form submission"
		renderStatus(w, r, deps.Logger, http.StatusBadRequest, view)
		return
	}
	view.Question = r.PostForm.Get("question")

	if deps.Client == nil {
		view.Error = askclient.FallbackMessage
		render(w, r, deps.Logger, view)
		return
	}

	answer, err := deps.Client.Ask(r.Context(), view.Question)
	if err != nil {
		view.Error = askclient.FallbackMessage
		var askErr *askclient.Error
		if errors.As(err, &askErr) && askErr.Message != "" {
			view.Error = askErr.Message
		}
		if deps.Logger != nil {
			deps.Logger.WarnContext(r.Context(), "ask failed", slog.Any("error", err))
		}
		render(w, r, deps.Logger, view)
		return
	}

	view.SQL = answer.SQL
	view.Answered = true
	view.Table, view.HasTable = present.BuildTable(answer.Results)
	if chart, ok := present.BuildChart(answer.Results); ok {
		view.Chart = template.HTML(chart.SVG())
	}
	render(w, r, deps.Logger, view)
}

func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, view page) {
	renderStatus(w, r, logger, http.StatusOK, view)
}

func renderStatus(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, view page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, view); err != nil && logger != nil {
		logger.ErrorContext(r.Context(), "render console page", slog.Any("error", err))
	}
}
