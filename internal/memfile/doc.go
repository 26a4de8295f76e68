// Package memfile parses word-per-line memory files (.mem) into word
// sequences.
//
// The format is line oriented:
//
//	// character RAM, 13-bit words
//	@0000
//	0001101000001   -- 'A' in white
//	0001101000010 0001101000011
//
// Everything after "//" or "--" is a comment, lines starting with "@" are
// address directives and carry no data, and every remaining
// whitespace-separated token is one binary word. Tokens that are not binary
// numbers are skipped with a warning; they never abort parsing.
package memfile
