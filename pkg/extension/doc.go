// Package extension ships the JSErrorCollector browser extension inside the
// Go binary and puts it on disk where a browser profile can load it.
//
// Create one Extractor at startup and hand it to whatever configures the
// browser:
//
//	ext := extension.NewExtractor()
//	if err := ext.Install(profile); err != nil {
//	    return err
//	}
//
// Extraction writes <temp dir>/JSErrorCollector.xpi only when the file is
// missing or differs from the embedded archive, so repeated installs (and
// concurrent processes) leave a single, byte-identical copy.
package extension
