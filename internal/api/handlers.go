package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	reports "github.com/FPI-TW/report-sub000"
	reporterrors "github.com/FPI-TW/report-sub000/errors"
	"github.com/FPI-TW/report-sub000/reporttypes"
)

// GetHealth reports liveness.
func (h *handlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListScopes returns the configured scope names.
func (h *handlers) ListScopes(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.opts.Scopes))
	for name := range h.opts.Scopes {
		names = append(names, name)
	}
	slices.Sort(names)
	writeJSON(w, http.StatusOK, map[string]any{"scopes": names})
}

// GetReports serves one page of grouped reports for a scope.
//
// Query parameters: page (default 1), months (groups per page), refresh
// (bypass the listing cache).
func (h *handlers) GetReports(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "scope")
	scope, ok := h.opts.Scopes[name]
	if !ok {
		writeError(w, http.StatusNotFound, reporterrors.CodeNotFound, "unknown scope "+strconv.Quote(name))
		return
	}

	page := parseInt(r, "page", 1, 0)
	months := parseInt(r, "months", h.opts.DefaultMonths, h.opts.MaxMonths)

	var opts []reporttypes.ListOption
	if len(scope.FileTypes) > 0 {
		opts = append(opts, reports.WithFileTypes(scope.FileTypes...))
	}
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		opts = append(opts, reports.WithBypassCache())
	}

	result, err := h.lister.ListGroupedReports(r.Context(), scope.Prefix, page, months, opts...)
	if err != nil {
		code := reporterrors.CodeOf(err)
		h.logger.ErrorContext(r.Context(), "failed to list reports",
			"scope", name,
			"prefix", scope.Prefix,
			"code", code,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		// middleware.Timeout answers 504 once the request deadline has passed.
		if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
			return
		}
		writeError(w, statusOf(code), code, "failed to list reports")
		return
	}

	if result.Diagnostics.BoundReached {
		w.Header().Set("X-Listing-Incomplete", "true")
	}
	h.logger.DebugContext(r.Context(), "served reports",
		"scope", name,
		"page", result.Page,
		"groups", len(result.Groups),
		"total_groups", result.TotalGroups,
		"skipped", result.Diagnostics.SkippedCount,
		"from_cache", result.Diagnostics.FromCache,
	)
	writeJSON(w, http.StatusOK, result)
}
