package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"frontdesk/internal/visitor"
)

func TestBuild(t *testing.T) {
	at := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	evt := visitor.Event{VisitorID: "v1", Name: "Max Mustermann", Company: "Beispiel GmbH", Host: "Anna Schmidt", At: at}

	n, ok := Build(visitor.EventCheckedIn, evt, language.German)
	require.True(t, ok)
	assert.Equal(t, "Anna Schmidt", n.Host)
	assert.Equal(t, "Ihr Besuch Max Mustermann (Beispiel GmbH) ist am Empfang eingetroffen", n.Text)

	n, _ = Build(visitor.EventCheckedOut, evt, language.English)
	assert.Equal(t, "Your visitor Max Mustermann (Beispiel GmbH) has checked out", n.Text)

	evt.Auto, evt.Company = true, ""
	n, _ = Build(visitor.EventCheckedOut, evt, language.English)
	assert.Equal(t, "Your visitor Max Mustermann was checked out automatically", n.Text)

	evt.Host = ""
	_, ok = Build(visitor.EventCheckedIn, evt, language.German)
	assert.False(t, ok)
}

func TestWebhook_Send(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, time.Second, zerolog.Nop())
	err := wh.Send(context.Background(), Notification{Event: visitor.EventCheckedIn, Host: "Anna", VisitorID: "v1", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "v1", got.VisitorID)
	assert.Equal(t, "hi", got.Text)
}

func TestWebhook_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, time.Second, zerolog.Nop()).Send(context.Background(), Notification{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestLog_Send(t *testing.T) {
	assert.NoError(t, NewLog(zerolog.Nop()).Send(context.Background(), Notification{Text: "x"}))
}
