package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// Source implements ports.WatchableSource over an XML string held in memory.
type Source struct {
	mu       sync.RWMutex
	xml      string
	watchers []chan struct{}
}

// NewSource creates a new in-memory source with the provided route XML.
func NewSource(xml string) *Source {
	return &Source{xml: xml}
}

// NewFromRoutes wraps route XML fragments in a camelContext element.
func NewFromRoutes(routes ...string) *Source {
	xml := `<camelContext xmlns="http://camel.apache.org/schema/spring">`
	for _, r := range routes {
		xml += "\n" + r
	}
	xml += "\n</camelContext>"
	return NewSource(xml)
}

// Load parses the current XML into a new document.
func (s *Source) Load(ctx context.Context) (*etree.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	xml := s.xml
	s.mu.RUnlock()

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidXML, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidXML)
	}
	return doc, nil
}

// Set replaces the XML and notifies watchers.
func (s *Source) Set(xml string) {
	s.mu.Lock()
	s.xml = xml
	watchers := append([]chan struct{}(nil), s.watchers...)
	s.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// XML returns the current document text.
func (s *Source) XML() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.xml
}

// Watch returns a channel signaled after every Set. It is closed when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}
