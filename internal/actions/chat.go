package actions

import (
	"context"

	"scribe/internal/inference"
)

// ChatProvider supplies the generative action backed by the local
// inference service.
type ChatProvider struct {
	client *inference.Client
}

// NewChatProvider creates the chat action provider.
func NewChatProvider(client *inference.Client) *ChatProvider {
	return &ChatProvider{client: client}
}

// Register registers the generative actions.
func (p *ChatProvider) Register(r *Registry) {
	r.Register("ai:query", DeferredFunc(p.query))
}

// query asks the model to carry out the query against the selected text.
func (p *ChatProvider) query(ctx context.Context, query, selection string) ([]string, error) {
	return p.client.Query(ctx, query, selection)
}
