package server

import (
	"bytes"
	"strings"
	"testing"
)

func newTestServer() (*Server, *bytes.Buffer) {
	var buf bytes.Buffer
	state := NewState(Config{})
	server := NewServer("ejsd", "test", state, &buf)
	return server, &buf
}

func TestHandleMessage(t *testing.T) {
	var testCases = []struct {
		method     string
		contents   []byte
		expectedIn []string
	}{
		{
			method:   "initialize",
			contents: []byte(`{"id": 1, "params": {"clientInfo": {"name": "TestClient", "version": "1.0"}}}`),
			expectedIn: []string{
				`"jsonrpc":"2.0"`,
				`"textDocumentSync":1`,
				`"triggerCharacters":["<"]`,
				`"resolveProvider":true`,
			},
		},
		{
			method:     "shutdown",
			contents:   []byte(`{"id": 1}`),
			expectedIn: []string{"Content-Length: 38", `"jsonrpc"`, `"result":null`},
		},
		{
			method:   "textDocument/didOpen",
			contents: []byte(`{"params": {"textDocument": {"uri": "file:///tmp/index.ejs", "languageId": "ejs", "version": 1, "text": "use typescript now\nno match here"}}}`),
			expectedIn: []string{
				"textDocument/publishDiagnostics",
				`"uri":"file:///tmp/index.ejs"`,
				`"message":"typescript should be spelled TypeScript"`,
				`"start":{"line":0,"character":4}`,
				`"end":{"line":0,"character":14}`,
			},
		},
		{
			method:   "textDocument/completion",
			contents: []byte(`{"id": 2, "params": {"textDocument": {"uri": "file:///tmp/index.ejs"}, "position": {"line": 3, "character": 12}}}`),
			expectedIn: []string{
				`"label":"<%"`,
				`"label":"<%="`,
				`"label":"<%_"`,
				`"commitCharacters":[" "]`,
			},
		},
		{
			method:   "completionItem/resolve",
			contents: []byte(`{"id": 3, "params": {"label": "<%", "kind": 1, "data": 1}}`),
			expectedIn: []string{
				`"detail":"Scriptlet opening tag"`,
				`"data":1`,
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.method, func(t *testing.T) {
			server, buf := newTestServer()
			server.HandleMessage(tt.method, tt.contents)
			server.Stop()

			response := buf.String()
			for _, exp := range tt.expectedIn {
				if !strings.Contains(response, exp) {
					t.Errorf("'%s' failed. expected '%s' in '%s'", tt.method, exp, response)
				}
			}
		})
	}
}

func TestDidChangeRevalidates(t *testing.T) {
	server, buf := newTestServer()

	server.HandleMessage("textDocument/didOpen",
		[]byte(`{"params": {"textDocument": {"uri": "file:///tmp/a.ejs", "languageId": "ejs", "version": 1, "text": "nothing wrong"}}}`))
	server.HandleMessage("textDocument/didChange",
		[]byte(`{"params": {"textDocument": {"uri": "file:///tmp/a.ejs", "version": 2}, "contentChanges": [{"text": "now typescript"}]}}`))
	server.Stop()

	response := buf.String()
	if got := strings.Count(response, "textDocument/publishDiagnostics"); got != 2 {
		t.Errorf("expected 2 publish notifications, got %d in '%s'", got, response)
	}
	if !strings.Contains(response, `"start":{"line":0,"character":4}`) {
		t.Errorf("expected the changed text to be revalidated in '%s'", response)
	}
	if document := server.state.Documents["file:///tmp/a.ejs"]; document.Version != 2 {
		t.Errorf("expected document version 2, got %d", document.Version)
	}
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	server, buf := newTestServer()

	server.HandleMessage("textDocument/didOpen",
		[]byte(`{"params": {"textDocument": {"uri": "file:///tmp/a.ejs", "languageId": "ejs", "version": 1, "text": "typescript"}}}`))
	server.HandleMessage("textDocument/didClose",
		[]byte(`{"params": {"textDocument": {"uri": "file:///tmp/a.ejs"}}}`))
	server.Stop()

	if !strings.Contains(buf.String(), `"diagnostics":[]`) {
		t.Errorf("expected an empty diagnostics publication in '%s'", buf.String())
	}
	if len(server.state.Documents) != 0 {
		t.Errorf("expected document store to be empty, got %d documents", len(server.state.Documents))
	}
}

func TestConfigurationLifecycle(t *testing.T) {
	server, buf := newTestServer()

	server.HandleMessage("textDocument/didOpen",
		[]byte(`{"params": {"textDocument": {"uri": "file:///tmp/a.ejs", "languageId": "ejs", "version": 1, "text": "typescript"}}}`))
	server.HandleMessage("workspace/didChangeConfiguration",
		[]byte(`{"params": {"settings": {"ejsd": {"enabled": false}}}}`))
	server.HandleMessage("textDocument/didChange",
		[]byte(`{"params": {"textDocument": {"uri": "file:///tmp/a.ejs", "version": 2}, "contentChanges": [{"text": "typescript typescript"}]}}`))
	server.HandleMessage("workspace/didChangeConfiguration",
		[]byte(`{"params": {"settings": {"ejsd": {"enabled": true, "maxProblems": 1}}}}`))
	server.Stop()

	response := buf.String()

	// didOpen publishes one warning, disabling clears it, the change while
	// disabled publishes nothing, re-enabling revalidates the open document.
	if got := strings.Count(response, "textDocument/publishDiagnostics"); got != 3 {
		t.Errorf("expected 3 publish notifications, got %d in '%s'", got, response)
	}
	if got := strings.Count(response, `"message":"typescript should be spelled TypeScript"`); got != 2 {
		t.Errorf("expected 2 warning publications, got %d in '%s'", got, response)
	}
	if !strings.Contains(response, `"diagnostics":[]`) {
		t.Errorf("expected an empty diagnostics publication in '%s'", response)
	}
}

func TestMaxProblemsCapsPublishedDiagnostics(t *testing.T) {
	server, buf := newTestServer()

	server.HandleMessage("workspace/didChangeConfiguration",
		[]byte(`{"params": {"settings": {"ejsd": {"enabled": true, "maxProblems": 2}}}}`))
	server.HandleMessage("textDocument/didOpen",
		[]byte(`{"params": {"textDocument": {"uri": "file:///tmp/a.ejs", "languageId": "ejs", "version": 1, "text": "typescript\ntypescript\ntypescript\ntypescript"}}}`))
	server.Stop()

	if got := strings.Count(buf.String(), `"message":"typescript should be spelled TypeScript"`); got != 2 {
		t.Errorf("expected the problem cap to hold, got %d warnings in '%s'", got, buf.String())
	}
}

func TestUnknownMethodIsIgnored(t *testing.T) {
	server, buf := newTestServer()

	server.HandleMessage("textDocument/hover", []byte(`{"id": 4, "params": {}}`))
	server.Stop()

	if buf.Len() != 0 {
		t.Errorf("expected no response for an unhandled method, got '%s'", buf.String())
	}
}
