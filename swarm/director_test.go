package swarm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moonflow/moondev"
)

func testDirector(t *testing.T, gateway, data http.HandlerFunc) *Director {
	t.Helper()
	agent := testAgent(t, gateway, Model{"A", "vendor/a"})

	srv := httptest.NewServer(data)
	t.Cleanup(srv.Close)

	client, err := moondev.New(moondev.WithAPIKey("data-key"), moondev.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("moondev.New failed: %v", err)
	}
	return NewDirector(agent, client)
}

func TestParsePlan(t *testing.T) {
	reply := `Here is what I would fetch:

[PLAN]
1. hlp_sentiment() - check retail positioning
2. liquidations("24h") - liquidation pressure
3. liquidations("24h") - repeated on purpose
4. make_coffee() - not a dataset
5. imbalance("1h") - flow imbalance`

	calls := ParsePlan(reply)
	want := []PlanCall{
		{Name: "hlp_sentiment"},
		{Name: "liquidations", Arg: "24h"},
		{Name: "imbalance", Arg: "1h"},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestHasPlan(t *testing.T) {
	if HasPlan("just chatting about liquidations") {
		t.Error("plain chat should not count as a plan")
	}
	if !HasPlan("[PLAN]\n1. whales()") {
		t.Error("tagged reply should count as a plan")
	}
}

func TestChatUsesDirectorModel(t *testing.T) {
	var gotReq chatRequest
	d := testDirector(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	reply, err := d.Chat(context.Background(), "what can you fetch?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "hello" {
		t.Errorf("reply = %q", reply)
	}
	if gotReq.Model != DirectorModel.ID {
		t.Errorf("model = %q, want %q", gotReq.Model, DirectorModel.ID)
	}
	if len(gotReq.Messages) == 0 || !strings.Contains(gotReq.Messages[0].Content, "hlp_sentiment()") {
		t.Error("system prompt should carry the dataset catalog")
	}
}

func TestExecutePlanFetchesDatasets(t *testing.T) {
	var paths []string
	d := testDirector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"value": 42}`))
	})

	summary, err := d.ExecutePlan(context.Background(), []PlanCall{
		{Name: "liquidations", Arg: "1h"},
		{Name: "hlp_sentiment"},
	})
	if err != nil {
		t.Fatalf("ExecutePlan failed: %v", err)
	}

	wantPaths := []string{"/api/liquidations/1h.json", "/api/hlp/sentiment"}
	if len(paths) != len(wantPaths) {
		t.Fatalf("paths = %v, want %v", paths, wantPaths)
	}
	for i := range wantPaths {
		if paths[i] != wantPaths[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], wantPaths[i])
		}
	}
	if !strings.Contains(summary, `=== liquidations("1h") ===`) || !strings.Contains(summary, "=== hlp_sentiment() ===") {
		t.Errorf("summary missing dataset headers:\n%s", summary)
	}
	if !strings.Contains(summary, `"value": 42`) {
		t.Errorf("summary missing payload:\n%s", summary)
	}
}

func TestExecutePlanDefaultsTimeframe(t *testing.T) {
	var gotPath string
	d := testDirector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	})

	if _, err := d.ExecutePlan(context.Background(), []PlanCall{{Name: "liquidations"}}); err != nil {
		t.Fatalf("ExecutePlan failed: %v", err)
	}
	if gotPath != "/api/liquidations/24h.json" {
		t.Errorf("path = %q, want the 24h default", gotPath)
	}
}

func TestExecutePlanSurvivesPartialFailure(t *testing.T) {
	d := testDirector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/whales.json" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	})

	summary, err := d.ExecutePlan(context.Background(), []PlanCall{
		{Name: "whales"},
		{Name: "events"},
	})
	if err != nil {
		t.Fatalf("ExecutePlan failed: %v", err)
	}
	if !strings.Contains(summary, "fetch failed") {
		t.Error("summary should note the failed fetch")
	}
	if !strings.Contains(summary, `"ok": true`) {
		t.Error("summary should carry the surviving dataset")
	}
}

func TestExecutePlanAllFailed(t *testing.T) {
	d := testDirector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})

	if _, err := d.ExecutePlan(context.Background(), []PlanCall{{Name: "whales"}}); err == nil {
		t.Fatal("expected error when every fetch fails")
	}
}

func TestAnalyzeCarriesDataToRoster(t *testing.T) {
	var gotReq chatRequest
	d := testDirector(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"analysis"}}]}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	results := d.Analyze(context.Background(), "is BTC overheated?", "=== whales() ===\n{}")
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("results = %v", results)
	}
	prompt := gotReq.Messages[1].Content
	if !strings.Contains(prompt, "is BTC overheated?") || !strings.Contains(prompt, "=== whales() ===") {
		t.Errorf("swarm prompt missing question or data:\n%s", prompt)
	}
}

func TestTrimPayloadTruncates(t *testing.T) {
	big, _ := json.Marshal(strings.Repeat("x", 2*maxPayloadChars))
	got := trimPayload(moondev.Document(big))
	if len(got) > maxPayloadChars+len("\n... [truncated]") {
		t.Errorf("payload not truncated, len = %d", len(got))
	}
	if !strings.HasSuffix(got, "[truncated]") {
		t.Error("truncated payload should carry the marker")
	}
}
