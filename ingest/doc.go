// Package ingest runs the parallel phase of database construction.
//
// A Pool splits the file list into one contiguous block per worker. Worker t
// owns shard t of every output store for the whole run, so the append path
// takes no locks; the only state shared between workers is a pair of atomic
// counters (files processed, files failed).
//
// For every successfully parsed file i and each of its chains, the worker
// appends under key i:
//
//   - the structure-alphabet letters and a newline to the alphabet store
//   - the header line to the header store
//   - the residue letters and a newline, assembled from fragments, to the
//     sequence store
//   - the CA coordinates (all x, then all y, then all z as little-endian
//     float32) to the coordinate store
//
// A file that fails to parse is counted and skipped; nothing is appended for
// it. A store write error is an I/O failure: the worker stops and Run reports
// it once all workers have returned.
package ingest
