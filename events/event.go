package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Change types delivered by the notification provider.
const (
	ChangeTypeCreated = "created"
	ChangeTypeUpdated = "updated"
	ChangeTypeDeleted = "deleted"
)

const ContentTypeKey = "Content-Type"

// Subscription is a registered interest in a resource-change stream.
// Field names follow the provider's wire format.
type Subscription struct {
	ID                 string    `json:"id,omitempty"`
	Resource           string    `json:"resource"`
	ChangeType         string    `json:"changeType"`
	NotificationURL    string    `json:"notificationUrl"`
	ExpirationDateTime time.Time `json:"expirationDateTime"`
	ClientState        string    `json:"clientState,omitempty"`
}

// Notification is a single inbound delivery for an active subscription.
type Notification struct {
	SubscriptionID string          `json:"subscriptionId"`
	ClientState    string          `json:"clientState"`
	ChangeType     string          `json:"changeType"`
	Resource       string          `json:"resource"`
	ResourceData   json.RawMessage `json:"resourceData,omitempty"`
}

// NotificationBatch is the body of one webhook POST.
type NotificationBatch struct {
	Value []Notification `json:"value"`
}

// ParseRecordingResource extracts the recording and call identifiers from a
// resource path of the form
// communications/callRecords/{callID}/recordings/{recordingID}.
func ParseRecordingResource(resource string) (recordingID, callID string, err error) {
	parts := strings.Split(strings.Trim(resource, "/"), "/")
	if len(parts) < 4 {
		return "", "", fmt.Errorf("unrecognized resource format: %v", resource)
	}
	found := false
	for _, p := range parts {
		if p == "recordings" {
			found = true
			break
		}
	}
	if !found {
		return "", "", fmt.Errorf("unrecognized resource format: %v", resource)
	}
	return parts[len(parts)-1], parts[len(parts)-3], nil
}
