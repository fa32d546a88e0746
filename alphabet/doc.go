// Package alphabet turns backbone geometry into structure-alphabet states
// and states into letters.
//
// A Converter appends one state per residue. The default Geometric converter
// discretizes the CA virtual bond angle and dihedral into 20 states; residues
// without a full window (chain ends, breaks) get the Invalid state. A Table
// maps states to printable letters and is read-only once built, so one Table
// can be shared by any number of goroutines.
package alphabet
