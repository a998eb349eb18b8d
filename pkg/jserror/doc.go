// Package jserror reads JavaScript errors captured by the JSErrorCollector
// browser extension.
//
// The extension installs a page-global collector, window.JSErrorCollector_errors,
// that queues every uncaught error. ReadErrors drains that queue through any
// automation session able to execute a script, and decodes each entry into a
// Record:
//
//	errs, err := jserror.ReadErrors(session)
//	if err != nil {
//	    return err
//	}
//	for _, e := range errs {
//	    fmt.Println(e) // TypeError: x is undefined [http://example.com/app.js:42]
//	}
//
// Reads are destructive: an error is returned by exactly one call. When the
// collector is missing (extension not loaded, or a page such as about:blank)
// the read returns no records; use Reader.Installed to tell the two apart.
package jserror
