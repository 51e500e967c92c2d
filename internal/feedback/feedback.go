// Package feedback queues client-side operations produced while handling a
// request and serializes them for the UI.
package feedback

import (
	"context"
	"fmt"
	"sync"
)

// Feedback is one client operation.
type Feedback interface {
	Type() string
	Description() string
	IsSimilarTo(other Feedback) bool
	SerializePayload(ctx context.Context) any
}

// Envelope is the wire form of a feedback.
type Envelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Payload     any    `json:"payload"`
}

// DocumentNodeCreated announces a new document node.
type DocumentNodeCreated struct {
	ContextPath string
	Identifier  string
}

const DocumentNodeCreatedType = "Neos.Neos.Ui:DocumentNodeCreated"

func (f *DocumentNodeCreated) Type() string {
	return DocumentNodeCreatedType
}

func (f *DocumentNodeCreated) Description() string {
	return fmt.Sprintf("Document Node %q created.", f.ContextPath)
}

func (f *DocumentNodeCreated) IsSimilarTo(other Feedback) bool {
	created, ok := other.(*DocumentNodeCreated)
	if !ok {
		return false
	}
	return f.ContextPath == created.ContextPath
}

func (f *DocumentNodeCreated) SerializePayload(context.Context) any {
	return map[string]string{
		"contextPath": f.ContextPath,
		"identifier":  f.Identifier,
	}
}

// Collection accumulates feedback, dropping entries similar to one already
// queued.
type Collection struct {
	mu    sync.Mutex
	items []Feedback
}

func NewCollection() *Collection {
	return &Collection{}
}

// Add queues f unless a similar feedback is pending. It reports whether f was
// queued.
func (c *Collection) Add(f Feedback) bool {
	if f == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.items {
		if existing.IsSimilarTo(f) {
			return false
		}
	}
	c.items = append(c.items, f)
	return true
}

// Len returns the number of pending entries.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Flush serializes and clears the pending entries.
func (c *Collection) Flush(ctx context.Context) []Envelope {
	c.mu.Lock()
	items := c.items
	c.items = nil
	c.mu.Unlock()

	out := make([]Envelope, 0, len(items))
	for _, item := range items {
		out = append(out, Envelope{
			Type:        item.Type(),
			Description: item.Description(),
			Payload:     item.SerializePayload(ctx),
		})
	}
	return out
}
