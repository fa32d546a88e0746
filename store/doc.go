// Package store implements the indexed, append-only record databases produced
// by createdb and the passes that finalize them.
//
// # Layout
//
// A database ("stream") is a data file, an index file and a .dbtype sidecar:
//
//	db        concatenated records (raw bytes, or one compression frame per record)
//	db.index  one text line per record: key \t offset \t length \n
//	db.dbtype 4-byte little-endian type code, bit 16 set when compressed
//
// # Writing
//
// A [Writer] owns one shard per worker slot. Each shard is a private temporary
// file, so concurrent workers append without any locking as long as every
// worker only touches its own shard:
//
//	w, _ := store.Create("db", "db.index", workers)
//	_ = w.Append(shard, key, record)
//
//	_ = w.BeginRecord(shard)
//	_ = w.AddFragment(shard, part1)
//	_ = w.AddFragment(shard, part2)
//	_ = w.EndRecord(shard, key)
//
//	_ = w.Close()
//
// Close concatenates the shards in shard order, rewrites shard-local offsets as
// global offsets, stable-sorts the index by key and publishes data, index and
// sidecar through temporary files and renames. An existing index and sidecar
// under the same names are removed before the renames. On failure nothing is
// published under the final names.
//
// # Keys
//
// Keys are chosen by the caller and may repeat: a structure file with several
// chains produces several records under the file's ordinal. [Reader.Lookup]
// returns the first record for a key and [Reader.EntriesForKey] all of them.
// [Renumber] rewrites an index so keys become dense and unique (0..N-1) in
// storage order without touching the data file.
package store
