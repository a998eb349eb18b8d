package extension

import (
	"fmt"
	"path/filepath"
)

// Profile is a browser profile that can load extensions from disk.
type Profile interface {
	AddExtension(path string) error
}

// Install extracts the archive if needed and registers it with the profile.
func (e *Extractor) Install(p Profile) error {
	path, err := e.Extract()
	if err != nil {
		return err
	}
	if err := p.AddExtension(path); err != nil {
		return fmt.Errorf("failed to add extension %s to profile: %w", path, err)
	}
	return nil
}

// InstallFromDir registers dir/JSErrorCollector.xpi with the profile without
// extracting anything.
//
// Deprecated: the archive is embedded in the binary; use Extractor.Install.
func InstallFromDir(p Profile, dir string) error {
	path := filepath.Join(dir, Filename)
	if err := p.AddExtension(path); err != nil {
		return fmt.Errorf("failed to add extension %s to profile: %w", path, err)
	}
	return nil
}
