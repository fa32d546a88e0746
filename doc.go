// Package strucdb builds indexed structure databases from a batch of
// structure files.
//
// CreateDB ingests the files in parallel and writes four synchronized,
// indexed, append-only databases for an output prefix P:
//
//	P      P.index      residue sequences (one record per chain)
//	P_ss   P_ss.index   structure-alphabet sequences
//	P_h    P_h.index    header lines
//	P_ca   P_ca.index   CA coordinates (float32 x..., y..., z...)
//
// Each data file has a .dbtype sidecar. With lookup tables enabled (the
// default), P.lookup maps every record id to its entry name and input file and
// P.source maps file numbers to file names.
//
// # Quick Start
//
//	ctx := context.Background()
//	res, err := strucdb.CreateDB(ctx, []string{"./pdb"}, "out/db",
//	    strucdb.WithThreads(8),
//	    strucdb.WithCompression(store.CompressionZSTD),
//	)
//	if err != nil {
//	    log.Fatal(err) // finalization failed, nothing half-written was published
//	}
//	fmt.Println(res.Stats.Failed, "files could not be parsed")
//
// # Keys
//
// During ingestion every record is keyed by the ordinal of its input file, so
// a file with several chains produces several records with the same key.
// After finalization every index is renumbered: keys become 0..N-1 in storage
// order, and record k of every stream describes the same chain as row k of
// the lookup table.
//
// # Failure Model
//
// Files that cannot be parsed are counted and skipped. Any I/O failure while
// writing or finalizing a database aborts the run with an error; databases
// are written to temporary files and renamed into place, so no database is
// ever published half-written under its real name.
//
// # Publishing
//
// With WithPublisher, the finished artifacts are uploaded to a blobstore
// (local directory, MinIO, S3) after finalization.
package strucdb
