package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Tandera-io/integracao-lia-teams/auth"
	"github.com/Tandera-io/integracao-lia-teams/events"
	"github.com/Tandera-io/integracao-lia-teams/graph"
	"github.com/Tandera-io/integracao-lia-teams/pkg/log"
	"github.com/Tandera-io/integracao-lia-teams/pkg/sync/queue"
	"github.com/Tandera-io/integracao-lia-teams/store"
	"github.com/Tandera-io/integracao-lia-teams/subscription"
	"github.com/Tandera-io/integracao-lia-teams/uri"
	router "github.com/gorilla/mux"
)

const subscriptionIDKey = "subscriptionID"

// Dispatch forwards one validated notification downstream.
type Dispatch func(resource string)

// RequestHandler for handling incoming requests.
type RequestHandler struct {
	subManager *subscription.Manager
	states     *store.ClientStates
	taskQueue  *queue.Queue
	dispatch   Dispatch
}

// NewRequestHandler factory for new RequestHandler.
func NewRequestHandler(subManager *subscription.Manager, states *store.ClientStates, taskQueue *queue.Queue, dispatch Dispatch) *RequestHandler {
	return &RequestHandler{
		subManager: subManager,
		states:     states,
		taskQueue:  taskQueue,
		dispatch:   dispatch,
	}
}

func logAndWriteErrorResponse(err error, statusCode int, w http.ResponseWriter) {
	log.Errorf("%v", err)
	w.Header().Set(events.ContentTypeKey, "text/plain")
	w.WriteHeader(statusCode)
	if _, err2 := w.Write([]byte(err.Error())); err2 != nil {
		log.Errorf("failed to write error response body: %v", err2)
	}
}

func writeJSONResponse(v interface{}, statusCode int, w http.ResponseWriter) {
	w.Header().Set(events.ContentTypeKey, "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write response body: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("%v %v", r.Method, r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func statusForManagementError(err error) int {
	var providerErr *graph.ProviderError
	switch {
	case errors.Is(err, graph.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *RequestHandler) createSubscription(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WebhookURL string `json:"webhookUrl"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logAndWriteErrorResponse(err, http.StatusBadRequest, w)
			return
		}
	}
	created, err := h.subManager.Create(r.Context(), body.WebhookURL)
	if err != nil {
		logAndWriteErrorResponse(err, statusForManagementError(err), w)
		return
	}
	writeJSONResponse(created, http.StatusCreated, w)
}

func (h *RequestHandler) retrieveSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subManager.List(r.Context())
	if err != nil {
		logAndWriteErrorResponse(err, statusForManagementError(err), w)
		return
	}
	writeJSONResponse(struct {
		Subscriptions []events.Subscription `json:"subscriptions"`
	}{Subscriptions: subs}, http.StatusOK, w)
}

func (h *RequestHandler) renewSubscription(w http.ResponseWriter, r *http.Request) {
	id := router.Vars(r)[subscriptionIDKey]
	renewed, err := h.subManager.Renew(r.Context(), id)
	if err != nil {
		logAndWriteErrorResponse(err, statusForManagementError(err), w)
		return
	}
	writeJSONResponse(renewed, http.StatusOK, w)
}

func (h *RequestHandler) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	id := router.Vars(r)[subscriptionIDKey]
	if err := h.subManager.Delete(r.Context(), id); err != nil {
		logAndWriteErrorResponse(err, statusForManagementError(err), w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NewHTTP returns the service router.
func NewHTTP(requestHandler *RequestHandler, gate *auth.Gate) http.Handler {
	r := router.NewRouter()
	r.StrictSlash(true)
	r.Use(loggingMiddleware)

	// health check
	r.HandleFunc("/", healthCheck).Methods(http.MethodGet)

	// webhook: handshake validation and notification delivery
	r.HandleFunc(uri.Webhook, requestHandler.validateWebhook).Methods(http.MethodGet)
	r.HandleFunc(uri.Webhook, requestHandler.receiveNotifications).Methods(http.MethodPost)

	// subscription management, guarded by the dual-mode gate
	s := r.PathPrefix(uri.Subscriptions).Subrouter()
	s.Use(gate.Middleware)
	s.HandleFunc("", requestHandler.createSubscription).Methods(http.MethodPost)
	s.HandleFunc("", requestHandler.retrieveSubscriptions).Methods(http.MethodGet)
	s.HandleFunc("/{"+subscriptionIDKey+"}"+uri.RenewSuffix, requestHandler.renewSubscription).Methods(http.MethodPost)
	s.HandleFunc("/{"+subscriptionIDKey+"}", requestHandler.deleteSubscription).Methods(http.MethodDelete)

	return r
}
