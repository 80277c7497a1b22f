// Package toolpath selects the location of the compiler tool for the current
// build target.
package toolpath

import "runtime"

// Default tool locations, relative to the working directory or found on PATH.
const (
	// Linux is the tool name on Linux.
	Linux = "VirtualContext"
	// Windows64 is the 64-bit Windows build, shipped under utils.
	Windows64 = `utils\VirtualContext.exe`
	// Windows32 is the 32-bit build, used on every other target.
	Windows32 = `x86\VirtualContext.exe`
)

// For returns the tool path for a GOOS/GOARCH pair. Every target that is
// neither Linux nor 64-bit Windows gets the 32-bit Windows path.
func For(goos, goarch string) string {
	switch {
	case goos == "linux":
		return Linux
	case goos == "windows" && (goarch == "amd64" || goarch == "arm64"):
		return Windows64
	default:
		return Windows32
	}
}

// Default returns the tool path for the running binary.
func Default() string {
	return For(runtime.GOOS, runtime.GOARCH)
}

// Resolve returns the first non-empty override, or the platform default.
func Resolve(overrides ...string) string {
	for _, p := range overrides {
		if p != "" {
			return p
		}
	}
	return Default()
}
