package booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eventease/eventbot/catalog"
)

type fakeRecorder struct {
	calls    int
	event    *catalog.Event
	degraded bool
	err      error
}

func (r *fakeRecorder) Record(_ context.Context, ev *catalog.Event, _, _, _ string, degraded bool) error {
	r.calls++
	r.event = ev
	r.degraded = degraded
	return r.err
}

var jazzNight = catalog.Event{ID: 12, Name: "Jazz Night", Category: "Music"}

func newTestFinalizer(t *testing.T, baseURL string, rec Recorder) *Finalizer {
	t.Helper()
	f, err := NewFinalizer(baseURL, 2*time.Second, rec)
	if err != nil {
		t.Fatalf("NewFinalizer: %v", err)
	}
	return f
}

func TestFinalizeUsesFreshParticipantCount(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"status": "success", "participants": 42}`)
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	f := newTestFinalizer(t, srv.URL, rec)

	msg := f.Finalize(context.Background(), &jazzNight, "Music", "Ada", "ada@example.com")

	if gotPath != "/increment_participants/12/" {
		t.Fatalf("path = %q", gotPath)
	}
	if !strings.Contains(msg, "participant number 42") {
		t.Fatalf("message = %q", msg)
	}
	if !strings.Contains(msg, "'Jazz Night'") || !strings.Contains(msg, "Music") {
		t.Fatalf("message = %q", msg)
	}
	if rec.calls != 1 || rec.degraded {
		t.Fatalf("recorder calls=%d degraded=%v", rec.calls, rec.degraded)
	}
}

func TestFinalizeDegradedOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	f := newTestFinalizer(t, srv.URL, rec)

	msg := f.Finalize(context.Background(), &jazzNight, "Music", "Ada", "ada@example.com")

	if msg != degradedText {
		t.Fatalf("message = %q", msg)
	}
	if !rec.degraded {
		t.Fatal("recorder not marked degraded")
	}
}

func TestFinalizeDegradedOnNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	f := newTestFinalizer(t, srv.URL, nil)

	msg := f.Finalize(context.Background(), &jazzNight, "Music", "Ada", "ada@example.com")
	if msg != degradedText {
		t.Fatalf("message = %q", msg)
	}
}

func TestFinalizeDegradedOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	f := newTestFinalizer(t, srv.URL, nil)

	msg := f.Finalize(context.Background(), &jazzNight, "Music", "Ada", "ada@example.com")
	if msg != degradedText {
		t.Fatalf("message = %q", msg)
	}
}

func TestFinalizeNilEventSkipsCounter(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	f := newTestFinalizer(t, srv.URL, rec)

	msg := f.Finalize(context.Background(), nil, "Music", "Ada", "ada@example.com")

	if hits != 0 {
		t.Fatalf("counter endpoint hit %d times for category booking", hits)
	}
	if !strings.Contains(msg, "Music category is confirmed") {
		t.Fatalf("message = %q", msg)
	}
	if rec.calls != 1 || rec.event != nil || rec.degraded {
		t.Fatalf("recorder calls=%d event=%v degraded=%v", rec.calls, rec.event, rec.degraded)
	}
}

func TestFinalizeSurvivesRecorderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"participants": 7}`)
	}))
	defer srv.Close()

	rec := &fakeRecorder{err: fmt.Errorf("db down")}
	f := newTestFinalizer(t, srv.URL, rec)

	msg := f.Finalize(context.Background(), &jazzNight, "Music", "Ada", "ada@example.com")
	if !strings.Contains(msg, "participant number 7") {
		t.Fatalf("message = %q", msg)
	}
}
