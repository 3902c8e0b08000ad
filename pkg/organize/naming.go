package organize

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// BucketPrefix starts the name of every directory the organizer produces.
	// Directories carrying it are never descended into.
	BucketPrefix = "Extension_"

	// QuarantineRoot holds same-name, same-size, different-content files
	QuarantineRoot = BucketPrefix + "EXISTING"

	hiddenPrefix = "."
)

// Classify splits a file name into its base name and normalized extension.
// The extension is the text after the last dot, uppercased. ok is false when
// the name has no dot or nothing follows the last one.
func Classify(name string) (base, ext string, ok bool) {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], strings.ToUpper(name[i+1:]), true
}

// IsHidden reports whether a file name marks a hidden file
func IsHidden(name string) bool {
	return strings.HasPrefix(name, hiddenPrefix)
}

// IsBucketDir reports whether a directory name belongs to the organizer's output
func IsBucketDir(name string) bool {
	return strings.HasPrefix(name, BucketPrefix)
}

// BucketName returns the directory name for an extension. Buckets sit
// directly under the base directory, so this is also their relative path.
func BucketName(ext string) string {
	return BucketPrefix + ext
}

// QuarantineDir returns the quarantine path for an extension, relative to the base directory
func QuarantineDir(ext string) string {
	return filepath.Join(QuarantineRoot, BucketName(ext))
}

// SlotName returns the n-th disambiguated file name, "{base}_{n}.{ext}" with a lowercase extension
func SlotName(base, ext string, n int) string {
	return fmt.Sprintf("%s_%d.%s", base, n, strings.ToLower(ext))
}
