package server

import (
	"ejsd/internal/lsp"
)

// ScriptletTag identifies which scriptlet opener a completion item stands
// for. It rides along in the item's data field and comes back unchanged on
// completionItem/resolve.
type ScriptletTag int

const (
	ScriptletOpen ScriptletTag = iota + 1
	ScriptletOutput
	ScriptletTrim
)

func (t ScriptletTag) Detail() string {
	switch t {
	case ScriptletOpen:
		return "Scriptlet opening tag"
	case ScriptletOutput:
		return "Scriptlet output opening tag"
	default:
		return "No documentation available"
	}
}

func (t ScriptletTag) Documentation() *lsp.MarkupContent {
	var value string
	switch t {
	case ScriptletOpen:
		value = "Opens a scriptlet block for control flow. Code inside runs without writing anything into the rendered output."
	case ScriptletOutput:
		value = "Outputs the value of the enclosed expression into the template, HTML-escaped."
	default:
		return nil
	}

	return &lsp.MarkupContent{
		Kind:  lsp.MarkupKindPlainText,
		Value: value,
	}
}

// Handler for `textDocument/completion`. The cursor position is irrelevant:
// the menu of scriptlet openers is the same everywhere in a template.
func handleCompletion(request *lsp.CompletionRequest) *lsp.CompletionResponse {
	completionList := []lsp.CompletionItem{
		{
			Label:            "<%",
			Kind:             lsp.CompletionText,
			CommitCharacters: []string{" "},
			Data:             int(ScriptletOpen),
		},
		{
			Label:            "<%=",
			Kind:             lsp.CompletionText,
			CommitCharacters: []string{" "},
			Data:             int(ScriptletOutput),
		},
		{
			Label:            "<%_",
			Kind:             lsp.CompletionText,
			CommitCharacters: []string{" "},
			Data:             int(ScriptletTrim),
		},
	}

	response := lsp.NewCompletionResponse(request.ID, completionList)
	return &response
}

// Handler for `completionItem/resolve`
func handleCompletionItemResolve(
	request *lsp.CompletionItemResolveRequest,
) *lsp.CompletionItemResolveResponse {
	completionItem := request.Params.CompletionItem

	tag := ScriptletTag(completionItem.Data)
	completionItem.Detail = tag.Detail()
	completionItem.Documentation = tag.Documentation()

	response := lsp.CompletionItemResolveResponse{
		Response: lsp.Response{
			RPC: lsp.RPC_VERSION,
			ID:  &request.ID,
		},
		Result: completionItem,
	}
	return &response
}
