package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jhagedorn/wirecat/pkg/graphio"
)

// testDiagram returns a serialized diagram with one atomic box wired
// between the boundaries, feeding two downstream copies of the same box.
func testDiagram() graphio.Diagram {
	return graphio.Diagram{
		Inputs:  []string{"int"},
		Outputs: []string{"int"},
		Boxes: []graphio.Box{
			{ID: 1, Kind: graphio.KindAtomic, Name: "f", Inputs: []string{"int"}, Outputs: []string{"int"}},
		},
		Wires: []graphio.Wire{
			{From: graphio.Port{Box: -1, Kind: graphio.PortOut, Index: 1}, To: graphio.Port{Box: 1, Kind: graphio.PortIn, Index: 1}},
			{From: graphio.Port{Box: 1, Kind: graphio.PortOut, Index: 1}, To: graphio.Port{Box: -2, Kind: graphio.PortIn, Index: 1}},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{Store: NewMemoryStore()})
}

func createDiagram(t *testing.T, srv *Server, name string, d graphio.Diagram) Record {
	t.Helper()

	body, err := json.Marshal(createRequest{Name: name, Diagram: d})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/diagrams", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var rec Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec
}

func TestCreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	rec := createDiagram(t, srv, "demo", testDiagram())

	if rec.ID == "" {
		t.Fatal("created record has empty id")
	}
	if rec.Name != "demo" {
		t.Errorf("Name = %q, want %q", rec.Name, "demo")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/diagrams/"+rec.ID, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got Record
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != rec.ID || len(got.Diagram.Boxes) != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestCreateRejectsInvalidDiagram(t *testing.T) {
	srv := newTestServer(t)

	bad := testDiagram()
	bad.Wires[0].To.Box = 99 // unknown box

	body, _ := json.Marshal(createRequest{Name: "bad", Diagram: bad})
	req := httptest.NewRequest(http.MethodPost, "/v1/diagrams", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "INVALID_DIAGRAM" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
}

func TestGetNotFound(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/diagrams/missing", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t)
	rec := createDiagram(t, srv, "demo", testDiagram())

	req := httptest.NewRequest(http.MethodDelete, "/v1/diagrams/"+rec.ID, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/diagrams/"+rec.ID, nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
}

func TestList(t *testing.T) {
	srv := newTestServer(t)
	createDiagram(t, srv, "first", testDiagram())
	createDiagram(t, srv, "second", testDiagram())

	req := httptest.NewRequest(http.MethodGet, "/v1/diagrams", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var recs []Record
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
}

func TestRewriteAddJunctions(t *testing.T) {
	srv := newTestServer(t)

	d := graphio.Diagram{
		Inputs:  []string{"int"},
		Outputs: []string{"int", "int"},
		Boxes: []graphio.Box{
			{ID: 1, Kind: graphio.KindCopy, Value: "int"},
		},
		Wires: []graphio.Wire{
			{From: graphio.Port{Box: -1, Kind: graphio.PortOut, Index: 1}, To: graphio.Port{Box: 1, Kind: graphio.PortIn, Index: 1}},
			{From: graphio.Port{Box: 1, Kind: graphio.PortOut, Index: 1}, To: graphio.Port{Box: -2, Kind: graphio.PortIn, Index: 1}},
			{From: graphio.Port{Box: 1, Kind: graphio.PortOut, Index: 2}, To: graphio.Port{Box: -2, Kind: graphio.PortIn, Index: 2}},
		},
	}
	rec := createDiagram(t, srv, "copy", d)

	body, _ := json.Marshal(rewriteRequest{Passes: []string{"add-junctions"}})
	req := httptest.NewRequest(http.MethodPost, "/v1/diagrams/"+rec.ID+"/rewrite", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp rewriteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.JunctionsAdded != 1 {
		t.Errorf("JunctionsAdded = %d, want 1", resp.Result.JunctionsAdded)
	}
	if len(resp.Record.Diagram.Boxes) != 1 || resp.Record.Diagram.Boxes[0].Kind != graphio.KindJunction {
		t.Errorf("boxes = %+v", resp.Record.Diagram.Boxes)
	}
}

func TestRewriteUnknownPass(t *testing.T) {
	srv := newTestServer(t)
	rec := createDiagram(t, srv, "demo", testDiagram())

	body, _ := json.Marshal(rewriteRequest{Passes: []string{"bogus"}})
	req := httptest.NewRequest(http.MethodPost, "/v1/diagrams/"+rec.ID+"/rewrite", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRenderDOT(t *testing.T) {
	srv := newTestServer(t)
	rec := createDiagram(t, srv, "demo", testDiagram())

	req := httptest.NewRequest(http.MethodGet, "/v1/diagrams/"+rec.ID+"/render?format=dot", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	out := w.Body.String()
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "n1") {
		t.Errorf("unexpected dot output:\n%s", out)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	srv := newTestServer(t)
	rec := createDiagram(t, srv, "demo", testDiagram())

	req := httptest.NewRequest(http.MethodGet, "/v1/diagrams/"+rec.ID+"/render?format=bmp", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	now := time.Now().UTC()
	rec := &Record{ID: "a", Name: "one", Diagram: testDiagram(), CreatedAt: now, UpdatedAt: now}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "one" {
		t.Errorf("Name = %q", got.Name)
	}

	// Mutating the returned copy must not affect the stored record.
	got.Name = "changed"
	again, _ := store.Get(ctx, "a")
	if again.Name != "one" {
		t.Error("store returned a shared record")
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != ErrNotFound {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, "a"); err != ErrNotFound {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Now().UTC()
	for i, id := range []string{"old", "new"} {
		rec := &Record{ID: id, UpdatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.Put(ctx, rec); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	recs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "new" || recs[1].ID != "old" {
		t.Errorf("order = %v", []string{recs[0].ID, recs[1].ID})
	}
}
