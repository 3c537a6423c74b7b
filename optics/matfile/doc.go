// Package matfile reads material data files into a normalized [Record].
//
// Supported layouts:
//   - .yml / .yaml: the refractiveindex.info database format (REFERENCES,
//     COMMENTS, DATA, SPECS), one or more datasets per file
//   - .txt: whitespace separated columns with a "#key: value" header
//   - .csv: comma separated columns with the same header
//
// Text files hold a single tabulated dataset. Records can be written back as
// YAML with [Write].
package matfile
