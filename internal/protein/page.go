package protein

import "sync"

const (
	NoDescription = "No description available."
	NoName        = "Protein name unavailable"
)

// Page holds the text shown next to the viewer and the widget that shows
// the model.
type Page struct {
	mu          sync.RWMutex
	description string
	proteinName string

	Widget Widget
}

func NewPage(w Widget) *Page {
	return &Page{Widget: w}
}

// Apply copies metadata into the page text, substituting placeholders for
// missing fields.
func (p *Page) Apply(meta *Metadata) {
	desc, name := NoDescription, NoName
	if meta != nil {
		if meta.Description != "" {
			desc = meta.Description
		}
		if meta.Name != "" {
			name = "Protein: " + meta.Name
		}
	}
	p.mu.Lock()
	p.description, p.proteinName = desc, name
	p.mu.Unlock()
}

func (p *Page) Description() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.description
}

func (p *Page) ProteinName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.proteinName
}
