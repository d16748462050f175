package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vanshika/routemap/backend/internal/domain"
	"github.com/vanshika/routemap/backend/internal/mapfile"
	"github.com/vanshika/routemap/backend/internal/service"
)

const (
	setMapPath           = "/api/Map/SetMap"
	getMapPath           = "/api/Map/GetMap"
	shortestRoutePath    = "/api/Map/ShortestRoute"
	shortestDistancePath = "/api/Map/ShortestDistance"
	shortestRoutesPath   = "/api/Map/ShortestRoutes"

	maxMapBodyBytes  = 10 << 20
	defaultBatchSize = 500

	// Body allowance per batch query, on top of a fixed envelope.
	batchQueryBodyBytes = 1 << 10
)

// APIHandlers exposes HTTP handlers for the map API.
type APIHandlers struct {
	logger       *slog.Logger
	service      *service.MapService
	maxBatchSize int
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.MapService) *APIHandlers {
	return &APIHandlers{
		logger:       logger,
		service:      svc,
		maxBatchSize: defaultBatchSize,
	}
}

// WithMaxBatchSize caps the number of queries accepted by the batch endpoint.
func (h *APIHandlers) WithMaxBatchSize(n int) *APIHandlers {
	if n > 0 {
		h.maxBatchSize = n
	}
	return h
}

func (h *APIHandlers) handleSetMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if r.Body == nil || r.Body == http.NoBody {
		writeError(w, http.StatusBadRequest, errorBadRequest, "Map data is required")
		return
	}
	defer r.Body.Close()

	body := http.MaxBytesReader(w, r.Body, maxMapBodyBytes)
	graph, err := mapfile.Decode(body, mapfile.FormatFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	if graph == nil {
		writeError(w, http.StatusBadRequest, errorBadRequest, "Map data is required")
		return
	}

	summary, err := h.service.SetMap(r.Context(), graph)
	if err != nil {
		h.writeServiceError(w, err, "store map")
		return
	}

	h.logger.Info("map stored",
		"version", summary.Version,
		"nodeCount", summary.NodeCount,
		"edgeCount", summary.EdgeCount,
	)

	respondJSON(w, http.StatusOK, setMapResponse{
		Message:   "Map successfully stored",
		NodeCount: summary.NodeCount,
		EdgeCount: summary.EdgeCount,
		Version:   summary.Version,
	})
}

func (h *APIHandlers) handleGetMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	graph, err := h.service.GetMap(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "fetch map")
		return
	}

	respondJSON(w, http.StatusOK, graph)
}

func (h *APIHandlers) handleShortestRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	from, to, ok := routeParams(w, r)
	if !ok {
		return
	}

	route, err := h.service.ShortestRoute(r.Context(), from, to)
	if err != nil {
		h.writeServiceError(w, err, "shortest route")
		return
	}

	h.logger.Info("shortest route computed", "from", from, "to", to, "route", route.String(), "distance", route.Distance)
	respondJSON(w, http.StatusOK, toRouteResponse(route))
}

func (h *APIHandlers) handleShortestDistance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	from, to, ok := routeParams(w, r)
	if !ok {
		return
	}

	distance, err := h.service.ShortestDistance(r.Context(), from, to)
	if err != nil {
		h.writeServiceError(w, err, "shortest distance")
		return
	}

	h.logger.Info("shortest distance computed", "from", from, "to", to, "distance", distance)
	respondJSON(w, http.StatusOK, distanceResponse{
		From:     from,
		To:       to,
		Distance: distance,
	})
}

func (h *APIHandlers) handleShortestRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload batchRequest
	limit := int64(h.maxBatchSize+1) * batchQueryBodyBytes
	if err := decodeJSON(w, r, &payload, limit); err != nil {
		writeDecodeError(w, err)
		return
	}
	if len(payload.Queries) == 0 {
		writeError(w, http.StatusBadRequest, errorBadRequest, "at least one query is required")
		return
	}
	if len(payload.Queries) > h.maxBatchSize {
		writeError(w, http.StatusBadRequest, errorBadRequest, fmt.Sprintf("at most %d queries are allowed per batch", h.maxBatchSize))
		return
	}

	outcomes, err := h.service.ShortestRoutes(r.Context(), payload.Queries)
	if err != nil {
		h.writeServiceError(w, err, "batch shortest routes")
		return
	}

	resp := batchResponse{Results: make([]batchResult, 0, len(outcomes))}
	for _, out := range outcomes {
		out := out
		item := batchResult{From: out.Query.From, To: out.Query.To}
		if out.Err != nil {
			status, kind, msg := classifyError(out.Err)
			if status == http.StatusInternalServerError {
				h.logger.Error("batch query failed", "error", out.Err, "from", out.Query.From, "to", out.Query.To)
			}
			item.Error = &errorResponse{Error: kind, Message: msg}
		} else {
			route := toRouteResponse(out.Route)
			item.Route = route.Route
			item.Path = route.Path
			item.Distance = &out.Route.Distance
		}
		resp.Results = append(resp.Results, item)
	}

	respondJSON(w, http.StatusOK, resp)
}

// routeParams extracts from/to and writes a 400 when either is blank.
func routeParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")
	if strings.TrimSpace(from) == "" {
		writeError(w, http.StatusBadRequest, errorBadRequest, "Parameter 'from' is required")
		return "", "", false
	}
	if strings.TrimSpace(to) == "" {
		writeError(w, http.StatusBadRequest, errorBadRequest, "Parameter 'to' is required")
		return "", "", false
	}
	return from, to, true
}

const (
	errorBadRequest   = "Bad Request"
	errorInvalidMap   = "Invalid Map"
	errorMapNotSet    = "Map Not Set"
	errorNodeNotFound = "Node Not Found"
	errorNoPath       = "No Path"
	errorInternal     = "Internal Server Error"
	errorUnauthorized = "Unauthorized"
)

// classifyError maps service failures onto a status, an error kind and a
// message safe to show callers.
func classifyError(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrMissingQueryNode):
		return http.StatusBadRequest, errorBadRequest, "Parameters 'from' and 'to' are required"
	case errors.Is(err, domain.ErrInvalidGraph):
		return http.StatusBadRequest, errorInvalidMap, err.Error()
	case errors.Is(err, domain.ErrMapNotSet):
		return http.StatusConflict, errorMapNotSet, "Map has not been set. Please call SetMap first."
	case errors.Is(err, domain.ErrNodeNotFound):
		return http.StatusNotFound, errorNodeNotFound, err.Error()
	case errors.Is(err, domain.ErrNoPathExists):
		return http.StatusUnprocessableEntity, errorNoPath, err.Error()
	default:
		return http.StatusInternalServerError, errorInternal, "an unexpected error occurred"
	}
}

func (h *APIHandlers) writeServiceError(w http.ResponseWriter, err error, op string) {
	status, kind, msg := classifyError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op+" failed", "error", err)
	}
	writeError(w, status, kind, msg)
}

func toRouteResponse(route domain.Route) routeResponse {
	nodes := route.Nodes
	if nodes == nil {
		nodes = []string{}
	}
	return routeResponse{
		From:     route.From,
		To:       route.To,
		Route:    nodes,
		Path:     route.String(),
		Distance: route.Distance,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

// writeDecodeError reports an unreadable request body, using 413 when the
// body exceeded its size limit.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, errorBadRequest,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	writeError(w, http.StatusBadRequest, errorBadRequest, err.Error())
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	respondJSON(w, status, errorResponse{
		Error:   kind,
		Message: msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "method not allowed")
}
