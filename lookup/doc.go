// Package lookup builds the tables that map database records back to their
// input files.
//
// The lookup table has one row per header record, in header-store order:
//
//	id<TAB>name<TAB>fileNumber
//
// Ids start at 0 and increase by one. Because every stream receives its
// records in the same per-chain order, id k is also the key of the k-th
// record of every stream once the stores are renumbered.
//
// The source table has one row per file that produced at least one record,
// in order of first appearance:
//
//	fileNumber<TAB>baseName
//
// Build must run before renumbering: it reads file numbers from the original
// header-store keys.
package lookup
