// Package testutil builds structure-file fixtures for tests.
//
// This package is intended for use in tests only.
//
//	path := testutil.WritePDB(t, dir, "1abc.pdb", "LYSOZYME",
//	    testutil.ChainSpec{ID: "A", Residues: "MKVLAG"},
//	    testutil.ChainSpec{ID: "B", Residues: "GSHM"},
//	)
//
// Residues are placed on an ideal helix, so consecutive CA atoms are 3.8 Å
// apart and every chain of length >= 4 has well defined angles.
package testutil
