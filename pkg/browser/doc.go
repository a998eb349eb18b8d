// Package browser launches Playwright-driven Chromium sessions that load the
// JSErrorCollector extension, and exposes them as jserror.ScriptExecutor.
//
// # Architecture
//
//  1. Profile: collects extensions (archives are unpacked on add) and renders
//     the launch arguments that load them. It implements extension.Profile.
//  2. SessionManager: owns the Playwright driver and every live session.
//  3. Session: one persistent browser context with its current page.
//
// Extensions only load into persistent contexts, so every session gets its
// own user data directory, removed again when the session closes unless the
// caller supplied it.
//
// # Example Usage
//
//	manager := browser.NewSessionManager()
//	if err := manager.Initialize(); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	profile := browser.NewProfile(workDir)
//	if err := extension.NewExtractor().Install(profile); err != nil {
//	    return err
//	}
//
//	session, err := manager.StartSession("app", browser.SessionOptions{
//	    Headless: true,
//	    Profile:  profile,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := session.Navigate("https://example.com", browser.NavigateOptions{}); err != nil {
//	    return err
//	}
//	errs, err := jserror.ReadErrors(session)
package browser
