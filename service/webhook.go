package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Tandera-io/integracao-lia-teams/events"
	"github.com/Tandera-io/integracao-lia-teams/pkg/log"
)

const validationTokenKey = "validationToken"

// validateWebhook answers the provider's handshake: the validation token is
// echoed back verbatim as plain text within the provider's timeout window.
func (h *RequestHandler) validateWebhook(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(validationTokenKey)
	if token == "" {
		logAndWriteErrorResponse(fmt.Errorf("missing validation token"), http.StatusBadRequest, w)
		return
	}
	log.Infof("webhook validation received")
	w.Header().Set(events.ContentTypeKey, "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(token)); err != nil {
		log.Errorf("failed to write validation token: %v", err)
	}
}

// receiveNotifications validates a notification batch and enqueues the
// accepted items. The delivery is acknowledged as soon as every item is
// validated and enqueued; dispatch latency never holds the response back.
func (h *RequestHandler) receiveNotifications(w http.ResponseWriter, r *http.Request) {
	var batch events.NotificationBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		logAndWriteErrorResponse(fmt.Errorf("invalid json body: %w", err), http.StatusBadRequest, w)
		return
	}

	accepted := 0
	for _, n := range batch.Value {
		if h.acceptNotification(n) {
			accepted++
		}
	}
	log.Infof("accepted %v of %v notifications", accepted, len(batch.Value))
	w.WriteHeader(http.StatusAccepted)
}

// acceptNotification verifies and enqueues one batch item. A bad item is
// discarded without failing the batch.
func (h *RequestHandler) acceptNotification(n events.Notification) bool {
	expected, ok := h.states.Get(n.SubscriptionID)
	if !ok {
		log.Warnf("notification for unknown subscription %v discarded", n.SubscriptionID)
		return false
	}
	if n.ClientState != expected {
		log.Warnf("notification for subscription %v discarded: clientState mismatch", n.SubscriptionID)
		return false
	}
	if n.ChangeType != events.ChangeTypeCreated {
		log.Debugf("ignoring notification of type %v for subscription %v", n.ChangeType, n.SubscriptionID)
		return false
	}
	resource := n.Resource
	if err := h.taskQueue.Submit(func() {
		defer func() {
			if p := recover(); p != nil {
				log.Errorf("panic while processing notification for %v: %v", resource, p)
			}
		}()
		h.dispatch(resource)
	}); err != nil {
		log.Errorf("cannot enqueue notification for %v: %v", resource, err)
		return false
	}
	return true
}
