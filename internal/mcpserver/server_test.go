package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/namesake/internal/noteservice"
	"github.com/starford/namesake/internal/storage"
	"github.com/starford/namesake/internal/testutil"
)

func testServer(t *testing.T, notes map[string]string) (*Server, storage.Provider) {
	t.Helper()

	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	testutil.WriteNotes(t, store, notes)
	testutil.Sync(t, db, store)

	svc := noteservice.NewService(store, db, noteservice.WithLogger(testutil.QuietLogger()))
	return New(svc, "test"), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "find_similar_notes":
		result, err = srv.findSimilar(ctx, req)
	case "fix_image_links":
		result, err = srv.fixImageLinks(ctx, req)
	case "copy_content":
		result, err = srv.copyContent(ctx, req)
	case "tokenize_title":
		result, err = srv.tokenizeTitle(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestFindSimilarNotes(t *testing.T) {
	srv, _ := testServer(t, map[string]string{
		"Weekly Plan.md":         "a",
		"archive/plan weekly.md": "b",
		"plan.md":                "c",
	})

	r := callTool(t, srv, "find_similar_notes", map[string]interface{}{"path": "Weekly Plan.md"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	var got []noteservice.SimilarNote
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Path != "archive/plan weekly.md" {
		t.Errorf("similar = %+v", got)
	}
}

func TestFindSimilarNotes_None(t *testing.T) {
	srv, _ := testServer(t, map[string]string{"alone.md": "x"})
	r := callTool(t, srv, "find_similar_notes", map[string]interface{}{"path": "alone.md"})
	if text := resultText(r); text != "no similar notes found" {
		t.Errorf("result = %q", text)
	}
}

func TestFindSimilarNotes_Missing(t *testing.T) {
	srv, _ := testServer(t, nil)
	r := callTool(t, srv, "find_similar_notes", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestFindSimilarNotes_EmptyPath(t *testing.T) {
	srv, _ := testServer(t, nil)
	r := callTool(t, srv, "find_similar_notes", map[string]interface{}{"path": ""})
	if r.IsError || resultText(r) != noActiveNote {
		t.Errorf("result = %q (error=%v)", resultText(r), r.IsError)
	}
}

func TestFixImageLinks_DryRun(t *testing.T) {
	srv, store := testServer(t, map[string]string{"n.md": "![[20230101123456.png]]"})

	r := callTool(t, srv, "fix_image_links", map[string]interface{}{"path": "n.md", "dry_run": true})
	if !strings.Contains(resultText(r), "Pasted image 20230101123456.png") {
		t.Errorf("preview = %q", resultText(r))
	}
	data, _ := store.Read("n.md")
	if string(data) != "![[20230101123456.png]]" {
		t.Errorf("dry run modified note: %q", data)
	}
}

func TestFixImageLinks(t *testing.T) {
	srv, store := testServer(t, map[string]string{"n.md": "see ![[20230101123456.png]]"})

	r := callTool(t, srv, "fix_image_links", map[string]interface{}{"path": "n.md"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	data, _ := store.Read("n.md")
	if string(data) != "see ![[Pasted image 20230101123456.png]]" {
		t.Errorf("content = %q", data)
	}
}

func TestCopyContent(t *testing.T) {
	srv, store := testServer(t, map[string]string{
		"Foo Bar.md":   "source",
		"a/bar foo.md": "old",
	})

	r := callTool(t, srv, "copy_content", map[string]interface{}{
		"source":  "Foo Bar.md",
		"targets": []interface{}{"a/bar foo.md"},
	})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	var report noteservice.CopyReport
	if err := json.Unmarshal([]byte(resultText(r)), &report); err != nil {
		t.Fatal(err)
	}
	if report.Succeeded != 1 || report.OperationID == "" {
		t.Errorf("report = %+v", report)
	}
	if data, _ := store.Read("a/Foo Bar.md"); string(data) != "source" {
		t.Errorf("renamed note = %q", data)
	}
}

func TestCopyContent_DefaultsToSimilar(t *testing.T) {
	srv, store := testServer(t, map[string]string{
		"Foo Bar.md":   "source",
		"a/bar foo.md": "old",
		"b/foo.md":     "untouched",
	})

	r := callTool(t, srv, "copy_content", map[string]interface{}{"source": "Foo Bar.md"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if data, _ := store.Read("b/foo.md"); string(data) != "untouched" {
		t.Errorf("b/foo.md = %q", data)
	}
	if _, err := store.Read("a/Foo Bar.md"); err != nil {
		t.Errorf("similar note not renamed: %v", err)
	}
}

func TestTokenizeTitle(t *testing.T) {
	srv, _ := testServer(t, nil)
	r := callTool(t, srv, "tokenize_title", map[string]interface{}{"title": "Мама Мыла Раму!"})
	if text := resultText(r); text != "мама мыла раму" {
		t.Errorf("tokens = %q", text)
	}
}
