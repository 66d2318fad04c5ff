package route

import (
	"sync"

	"github.com/beevik/etree"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// RecordCache memoizes decoded records per element. Records handed out are
// shared; callers that want to edit one should Clone it and write it back
// through Update.
type RecordCache struct {
	decoder *Decoder
	encoder *Encoder

	mu      sync.Mutex
	records map[*etree.Element]*domain.Record
}

// NewRecordCache creates an empty cache.
func NewRecordCache(dec *Decoder, enc *Encoder) *RecordCache {
	return &RecordCache{
		decoder: dec,
		encoder: enc,
		records: make(map[*etree.Element]*domain.Record),
	}
}

// Record returns the decoded record for el, decoding it on first use.
func (c *RecordCache) Record(el *etree.Element) *domain.Record {
	if el == nil {
		return domain.NewRecord()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if rec, ok := c.records[el]; ok {
		return rec
	}
	rec := c.decoder.Decode(el)
	c.records[el] = rec
	return rec
}

// Update encodes rec onto el and drops cached records for el, its
// descendants and its ancestors, whose records may embed el.
func (c *RecordCache) Update(el *etree.Element, rec *domain.Record, indent string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidate(el)
	for p := el.Parent(); p != nil; p = p.Parent() {
		delete(c.records, p)
	}
	c.encoder.Encode(el, el.Tag, rec, indent)
}

// Invalidate drops the cached records for el and its descendants.
func (c *RecordCache) Invalidate(el *etree.Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidate(el)
}

func (c *RecordCache) invalidate(el *etree.Element) {
	if el == nil {
		return
	}
	delete(c.records, el)
	for _, child := range el.ChildElements() {
		c.invalidate(child)
	}
}

// Reset empties the cache, typically after the document was reloaded.
func (c *RecordCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[*etree.Element]*domain.Record)
}

// Len returns the number of cached records.
func (c *RecordCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}
