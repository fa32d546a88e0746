// Package structure defines the parsed form of a structure file and the
// Parser boundary used by the ingestion pool.
//
// The bundled [PDBParser] reads ATOM/HETATM records of the first model of a
// PDB file, optionally gzip-compressed. It is intentionally minimal; other
// formats plug in by implementing [Parser].
package structure
