package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"

	"ejsd/internal/lsp"
)

type queuedMessage struct {
	method   string
	contents []byte
}

type handlerFunc func(contents []byte)

type Server struct {
	name         string
	version      string
	state        State
	writer       io.Writer
	handlers     map[string]handlerFunc
	messageQueue chan queuedMessage
	wg           sync.WaitGroup
	mu           sync.Mutex
}

func NewServer(name, version string, state State, writer io.Writer) *Server {
	s := &Server{
		name:         name,
		version:      version,
		state:        state,
		writer:       writer,
		messageQueue: make(chan queuedMessage),
	}

	s.handlers = map[string]handlerFunc{
		"initialize":                       s.handleInitialize,
		"initialized":                      func([]byte) {},
		"shutdown":                         s.handleShutdown,
		"exit":                             s.handleExit,
		"textDocument/didOpen":             s.handleDidOpen,
		"textDocument/didChange":           s.handleDidChange,
		"textDocument/didClose":            s.handleDidClose,
		"textDocument/completion":          s.handleCompletion,
		"completionItem/resolve":           s.handleCompletionItemResolve,
		"workspace/didChangeConfiguration": s.handleDidChangeConfiguration,
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *Server) run() {
	defer s.wg.Done()
	for msg := range s.messageQueue {
		s.dispatchMessage(msg.method, msg.contents)
	}
}

func (s *Server) HandleMessage(method string, contents []byte) {
	s.messageQueue <- queuedMessage{method: method, contents: contents}
}

func (s *Server) Stop() {
	close(s.messageQueue)
	s.wg.Wait()
}

// dispatchMessage runs on the queue goroutine; messages are handled strictly
// in arrival order, one at a time.
func (s *Server) dispatchMessage(method string, contents []byte) {
	slog.Info("Received message", "method", method)

	handler, ok := s.handlers[method]
	if !ok {
		slog.Debug("No handler for method", "method", method)
		return
	}
	handler(contents)
}

func (s *Server) handleInitialize(contents []byte) {
	var request lsp.InitializeRequest
	if err := json.Unmarshal(contents, &request); err != nil {
		slog.Error("Could not parse request", "method", "initialize", "err", err)
		return
	}

	if clientInfo := request.Params.ClientInfo; clientInfo != nil {
		slog.Info("Connected to client",
			"name", clientInfo.Name,
			"version", clientInfo.Version,
		)
	}

	capabilities := lsp.ServerCapabilities{
		TextDocumentSync: lsp.SyncFull,
		CompletionProvider: lsp.CompletionOptions{
			TriggerCharacters: []string{"<"},
			ResolveProvider:   true,
		},
	}
	info := lsp.ServerInfo{
		Name:    s.name,
		Version: s.version,
	}

	msg := lsp.NewInitializeResponse(request.ID, &capabilities, &info)
	s.writeResponse(msg)
}

func (s *Server) handleShutdown(contents []byte) {
	var request lsp.ShutdownRequest
	if err := json.Unmarshal(contents, &request); err != nil {
		slog.Error("Could not parse request", "method", "shutdown", "err", err)
		return
	}

	slog.Info("Received shutdown request")
	s.state.ShutdownRequested = true

	response := lsp.ShutdownResponse{
		Response: lsp.Response{
			RPC: lsp.RPC_VERSION,
			ID:  &request.ID,
		},
		Result: nil,
	}
	s.writeResponse(response)
}

func (s *Server) handleExit([]byte) {
	slog.Info("Exiting")
	if s.state.ShutdownRequested {
		os.Exit(0)
	} else {
		slog.Warn("Exiting without preceding shutdown request")
		os.Exit(1)
	}
}

func (s *Server) handleDidOpen(contents []byte) {
	var request lsp.DidOpenTextDocumentNotification
	if err := json.Unmarshal(contents, &request); err != nil {
		slog.Error("Could not parse request", "method", "textDocument/didOpen", "err", err)
		return
	}

	textDocument := request.Params.TextDocument
	slog.Info("Opened document", "URI", textDocument.URI)

	s.state.SetDocument(textDocument.URI, textDocument.Text, textDocument.Version)
	s.validateAndPublish(textDocument.URI)
}

func (s *Server) handleDidChange(contents []byte) {
	var request lsp.TextDocumentDidChangeNotification
	if err := json.Unmarshal(contents, &request); err != nil {
		slog.Error("Could not parse request", "method", "textDocument/didChange", "err", err)
		return
	}

	uri := request.Params.TextDocument.URI
	slog.Info("Changed document", "URI", uri)

	// Full sync: the last change event carries the whole document.
	for _, change := range request.Params.ContentChanges {
		s.state.SetDocument(uri, change.Text, request.Params.TextDocument.Version)
	}

	s.validateAndPublish(uri)
}

func (s *Server) handleDidClose(contents []byte) {
	var request lsp.DidCloseTextDocumentNotification
	if err := json.Unmarshal(contents, &request); err != nil {
		slog.Error("Could not parse request", "method", "textDocument/didClose", "err", err)
		return
	}

	uri := request.Params.TextDocument.URI
	slog.Info("Closed document", "URI", uri)

	s.state.RemoveDocument(uri)
	s.pushDiagnostics(uri, []lsp.Diagnostic{})
}

func (s *Server) handleCompletion(contents []byte) {
	var request lsp.CompletionRequest
	if err := json.Unmarshal(contents, &request); err != nil {
		slog.Error("Could not parse request", "method", "textDocument/completion", "err", err)
		return
	}

	if response := handleCompletion(&request); response != nil {
		s.writeResponse(response)
	}
}

func (s *Server) handleCompletionItemResolve(contents []byte) {
	var request lsp.CompletionItemResolveRequest
	if err := json.Unmarshal(contents, &request); err != nil {
		slog.Error("Could not parse request", "method", "completionItem/resolve", "err", err)
		return
	}

	if response := handleCompletionItemResolve(&request); response != nil {
		s.writeResponse(response)
	}
}

func (s *Server) handleDidChangeConfiguration(contents []byte) {
	wasEnabled := s.state.Settings.Enabled
	s.state.Settings = settingsFromPayload(contents, s.state.Config.DefaultMaxProblems)
	slog.Info("Settings updated",
		"enabled", s.state.Settings.Enabled,
		"maxProblems", s.state.Settings.MaxProblems,
	)

	if !s.state.Settings.Enabled {
		if wasEnabled {
			// Clear published diagnostics so stale warnings do not linger.
			for uri := range s.state.Documents {
				s.pushDiagnostics(uri, []lsp.Diagnostic{})
			}
		}
		return
	}

	for uri := range s.state.Documents {
		s.validateAndPublish(uri)
	}
}

// validateAndPublish runs the validator over one open document and publishes
// the result, replacing any previously published set for that URI. A disabled
// server publishes nothing.
func (s *Server) validateAndPublish(uri string) {
	if !s.state.Settings.Enabled {
		return
	}

	document, ok := s.state.Documents[uri]
	if !ok {
		return
	}

	diagnostics := findDiagnostics(document.Text, s.state.Config.Source, s.state.Settings.MaxProblems)
	s.pushDiagnostics(uri, diagnostics)
}

func (s *Server) pushDiagnostics(uri string, diagnostics []lsp.Diagnostic) {
	notification := lsp.NewDiagnosticNotification(uri, diagnostics)
	s.writeResponse(notification)
}

func (s *Server) writeResponse(msg any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply := lsp.EncodeMessage(msg)
	s.writer.Write([]byte(reply))
}
