package dispatcher_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tandera-io/integracao-lia-teams/dispatcher"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	url string
	err error
}

func (r fakeResolver) RecordingDownloadURL(context.Context, string) (string, error) {
	return r.url, r.err
}

const resource = "communications/callRecords/call-1/recordings/rec-1"

func TestDispatch(t *testing.T) {
	var got dispatcher.Request
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := dispatcher.New(dispatcher.Config{
		URL:     srv.URL,
		APIKey:  "K",
		Timeout: time.Second,
	}, fakeResolver{url: "https://download.example.com/rec-1.mp4"})
	defer d.Close()

	err := d.Dispatch(context.Background(), resource)
	require.NoError(t, err)
	require.Equal(t, "K", gotKey)
	require.Equal(t, "https://download.example.com/rec-1.mp4", got.ResourceURL)
	require.Equal(t, "Teams Meeting - call-1", got.Title)
}

func TestDispatchWithoutAPIKey(t *testing.T) {
	var gotKey *string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := r.Header.Get("X-Api-Key")
		gotKey = &v
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := dispatcher.New(dispatcher.Config{URL: srv.URL}, fakeResolver{url: "https://download.example.com/r.mp4"})
	defer d.Close()

	require.NoError(t, d.Dispatch(context.Background(), resource))
	require.NotNil(t, gotKey)
	require.Empty(t, *gotKey)
}

func TestDispatchRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("transcription backend down"))
	}))
	defer srv.Close()

	d := dispatcher.New(dispatcher.Config{URL: srv.URL}, fakeResolver{url: "https://download.example.com/r.mp4"})
	defer d.Close()

	err := d.Dispatch(context.Background(), resource)
	var rejected *dispatcher.RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, http.StatusInternalServerError, rejected.StatusCode)
	require.Equal(t, "transcription backend down", rejected.Body)
}

func TestDispatchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	d := dispatcher.New(dispatcher.Config{URL: srv.URL, Timeout: time.Second}, fakeResolver{url: "https://download.example.com/r.mp4"})
	defer d.Close()

	err := d.Dispatch(context.Background(), resource)
	var unreachable *dispatcher.UnreachableError
	require.ErrorAs(t, err, &unreachable)
}

func TestDispatchResolutionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("dispatch must not happen when resolution fails")
	}))
	defer srv.Close()

	resolutionErr := errors.New("download url not found")
	d := dispatcher.New(dispatcher.Config{URL: srv.URL}, fakeResolver{err: resolutionErr})
	defer d.Close()

	err := d.Dispatch(context.Background(), resource)
	require.ErrorIs(t, err, resolutionErr)
}

func TestDispatchUnrecognizedResource(t *testing.T) {
	d := dispatcher.New(dispatcher.Config{URL: "http://127.0.0.1:0"}, fakeResolver{url: "u"})
	defer d.Close()
	err := d.Dispatch(context.Background(), "chats/123/messages/456")
	require.Error(t, err)
}
