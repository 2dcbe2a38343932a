package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// Answer is a canned assistant reply.
type Answer struct {
	Status int
	Body   string
	Delay  time.Duration
}

// StubAssistant is an in-memory assistant endpoint keyed by query text.
type StubAssistant struct {
	URL string

	mu       sync.Mutex
	answers  map[string]Answer
	fallback Answer
	queries  []string
	headers  []http.Header
}

// StartAssistant launches a stub assistant that replies from answers and
// answers unknown queries with 404. The server is closed with the test.
func StartAssistant(t testing.TB, answers map[string]Answer) *StubAssistant {
	t.Helper()
	stub := &StubAssistant{
		answers:  map[string]Answer{},
		fallback: Answer{Status: http.StatusNotFound, Body: "unknown query"},
	}
	for query, answer := range answers {
		stub.answers[query] = answer
	}
	server := httptest.NewServer(http.HandlerFunc(stub.serve))
	t.Cleanup(server.Close)
	stub.URL = server.URL
	return stub
}

// Set replaces the reply for query.
func (s *StubAssistant) Set(query string, answer Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[query] = answer
}

// Queries returns the queries received so far, in arrival order.
func (s *StubAssistant) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// Headers returns the request headers received so far.
func (s *StubAssistant) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.headers...)
}

func (s *StubAssistant) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	query := string(body)

	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.headers = append(s.headers, r.Header.Clone())
	answer, ok := s.answers[query]
	if !ok {
		answer = s.fallback
	}
	s.mu.Unlock()

	if answer.Delay > 0 {
		select {
		case <-time.After(answer.Delay):
		case <-r.Context().Done():
			return
		}
	}
	status := answer.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, answer.Body)
}
