package models

import "fmt"

// Batch is the per-invocation arena shared by the layer passes. It is built
// once per call, never mutated afterwards, and holds no state between calls -
// the engine's determinism and concurrency safety depend on that.
type Batch struct {
	records []Record
	keys    []string
	scans   map[string]ScanInfo
	recon   bool
}

// NewBatch assigns every record a stable key and normalizes the scan map.
// The key is the PLU code, falling back to the barcode, falling back to the
// 1-based row position, so failure de-duplication works across layers even
// for records missing both identifiers.
func NewBatch(records []Record, scans map[string]ScanInfo) *Batch {
	keys := make([]string, len(records))
	for i, r := range records {
		switch {
		case !r.PLUCode.IsBlank():
			keys[i] = r.PLUCode.String()
		case !r.Barcode.IsBlank():
			keys[i] = r.Barcode.String()
		default:
			keys[i] = fmt.Sprintf("row-%d", i+1)
		}
	}
	return &Batch{
		records: records,
		keys:    keys,
		scans:   scans,
		recon:   scans != nil,
	}
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int { return len(b.records) }

// Record returns the record at index i.
func (b *Batch) Record(i int) Record { return b.records[i] }

// Key returns the stable record key for index i.
func (b *Batch) Key(i int) string { return b.keys[i] }

// ReconActive reports whether scan telemetry was supplied for this call.
// An empty-but-present map still activates the recon layer: the caller said
// "these products were never scanned", which is itself a signal.
func (b *Batch) ReconActive() bool { return b.recon }

// Scan looks up telemetry for a barcode.
func (b *Batch) Scan(barcode string) (ScanInfo, bool) {
	info, ok := b.scans[barcode]
	return info, ok
}
