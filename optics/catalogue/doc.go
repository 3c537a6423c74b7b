// Package catalogue indexes a directory tree of material files.
//
// The tree holds up to three sub-databases below the configured root:
//
//	RefractiveIndexInfo/library.yml   shelves, books and pages
//	RefractiveIndexInfo/data/...      the page files
//	Filmetrics/*.txt|*.csv
//	UserData/*.txt|*.csv
//
// [Catalogue.Rebuild] scans the enabled sub-databases, evaluates every
// material at the reference spectrum and swaps in the new index in one step.
// The index is saved as CSV or SQLite depending on the file extension, and
// materials are looked up by alias.
package catalogue
