package lsp

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#completionItem_resolve
type CompletionItemResolveRequest struct {
	Request
	Params CompletionItemResolveParams `json:"params"`
}

type CompletionItemResolveParams struct {
	CompletionItem
}

type CompletionItemResolveResponse struct {
	Response
	Result CompletionItem `json:"result"`
}
