//go:build !linux

package watcher

// DetectFilesystemType reports FSTypeUnknown off Linux; fsnotify is used and
// the polling fallback only engages when it fails.
func DetectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
