package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "vitiscli/internal/errors"
	"vitiscli/internal/files"
)

// FileCatalog lists data files and resolves report downloads
type FileCatalog interface {
	Inventory() (files.Inventory, error)
	ReportFile(name string) (files.FileInfo, error)
}

// FilesHandler exposes the data file inventory and report downloads
type FilesHandler struct {
	catalog      FileCatalog
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(catalog FileCatalog, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FilesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilesHandler{
		catalog:      catalog,
		logger:       logger.With(slog.String("component", "files_handler")),
		errorHandler: errorHandler,
	}
}

// Routes sets up the file routes
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListFiles)
	r.Get("/reports/{name}", h.DownloadReport)
	return r
}

// ListFiles handles GET /api/files
func (h *FilesHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	inventory, err := h.catalog.Inventory()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, inventory)
}

// DownloadReport handles GET /api/files/reports/{name}
func (h *FilesHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, err := h.catalog.ReportFile(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "serving report", "file", info.Name, "size", info.Size)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+info.Name+`"`)
	http.ServeFile(w, r, info.Path)
}
