package structure

var threeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLN": 'Q', "GLU": 'E', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"MSE": 'M', "SEC": 'U', "PYL": 'O', "ASX": 'B', "GLX": 'Z',
}

// OneLetter maps a three-letter residue name to its one-letter code, 'X' if unknown.
func OneLetter(resName string) byte {
	if c, ok := threeToOne[resName]; ok {
		return c
	}
	return 'X'
}
