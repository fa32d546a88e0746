package ingest

import "github.com/hupe1980/strucdb/structure"

// workerContext is the scratch space of one worker. It is never shared; its
// buffers are truncated, not reallocated, between chains and files.
type workerContext struct {
	shard     int
	structure structure.Structure
	states    []byte
	buf       []byte
	chains    int
}
