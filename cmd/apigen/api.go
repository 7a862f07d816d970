package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/Tjoosten/ApiGen/pkg/templating"
)

// TemplateAPI holds the dependencies for the template API handlers.
type TemplateAPI struct {
	tm     *templating.TemplateManager
	logger *slog.Logger
}

// NewTemplateAPI creates a new instance of the TemplateAPI.
func NewTemplateAPI(tm *templating.TemplateManager, logger *slog.Logger) *TemplateAPI {
	return &TemplateAPI{
		tm:     tm,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for all /api/templates endpoints.
func (t *TemplateAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/templates/refresh", t.handleRefresh)
	mux.HandleFunc("/api/templates/test", t.handleTest)
	mux.HandleFunc("/api/templates/preview", t.handlePreview)
	mux.HandleFunc("/api/templates", t.handleList)
}

// handleRefresh triggers a manual refresh of templates from disk.
func (t *TemplateAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if err := t.tm.Refresh(); err != nil {
		t.logger.Error("API triggered refresh failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to refresh templates: %v", err))
		return
	}
	t.logger.Info("Templates refreshed via API")
	w.WriteHeader(http.StatusNoContent)
}

// handleList returns a list of all available template names.
func (t *TemplateAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, t.tm.GetTemplateNames())
}

// handleTest executes the request body as a template against the element
// named by the optional "element" query parameter.
func (t *TemplateAPI) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	page, ok := t.page(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}

	var buf bytes.Buffer
	if err = t.tm.ExecuteTemplateString(&buf, string(body), page); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Template execution failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handlePreview renders a loaded template for the element named by the
// optional "element" query parameter.
func (t *TemplateAPI) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'name' is required")
		return
	}
	page, ok := t.page(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := t.tm.Execute(&buf, name, page); err != nil {
		if strings.Contains(err.Error(), "is undefined") {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Template '%s' not found", name))
			return
		}
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to render preview: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// page builds the template data for the "element" query parameter. An
// empty parameter gives the index page data.
func (t *TemplateAPI) page(w http.ResponseWriter, r *http.Request) (*templating.Page, bool) {
	path := r.URL.Query().Get("element")
	if path == "" {
		return t.tm.NewPage("", nil), true
	}
	el := t.tm.Catalog().Find(path)
	if el == nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Element '%s' not found", path))
		return nil, false
	}
	return t.tm.NewPage(el.Info().Name, el), true
}

// CatalogAPI holds the dependencies for the catalog API handlers.
type CatalogAPI struct {
	tm     *templating.TemplateManager
	logger *slog.Logger
}

// NewCatalogAPI creates a new instance of the CatalogAPI.
func NewCatalogAPI(tm *templating.TemplateManager, logger *slog.Logger) *CatalogAPI {
	return &CatalogAPI{
		tm:     tm,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for the catalog and health endpoints.
func (c *CatalogAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", c.handleHealth)
	mux.HandleFunc("/api/resolve", c.handleResolve)
	mux.HandleFunc("/api/catalog/stats", c.handleStats)
}

func (c *CatalogAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

// handleResolve resolves the "ref" query parameter in the documentation of
// the element named by "context".
func (c *CatalogAPI) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ref := r.URL.Query().Get("ref")
	contextPath := r.URL.Query().Get("context")
	if ref == "" || contextPath == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameters 'ref' and 'context' are required")
		return
	}

	result, err := resolveReference(c.tm, ref, contextPath)
	if err != nil {
		if errors.Is(err, errContextNotFound) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	c.logger.Debug("Reference resolved via API", "ref", ref, "context", contextPath, "resolved", result.Resolved)
	respondWithJSON(w, http.StatusOK, result)
}

// handleStats returns the element counts of the loaded catalog.
func (c *CatalogAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, c.tm.Catalog().Stats())
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to encode JSON response: %v\n", err)
		}
	}
}
