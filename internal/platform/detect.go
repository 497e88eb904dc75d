package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect performs platform detection and returns platform information.
// It uses runtime.GOOS and runtime.GOARCH for OS and architecture,
// and gopsutil for Linux distribution details.
//
// On Linux, if gopsutil fails to detect the distribution, distro fields
// stay empty and detection continues (graceful fallback). Providers only
// need distro details for install-deps decisions, so OS/arch alone is
// enough for resolution to work.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		ArchRaw: runtime.GOARCH,
	}

	arch, err := normalizeArch(runtime.GOARCH)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	info.Arch = arch

	// Detect Linux distribution details using gopsutil (Linux only)
	if runtime.GOOS == "linux" {
		plat, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			// Context cancellation is a hard failure
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			// Graceful fallback: continue with OS/arch only
			return info, nil
		}

		plat = normalizePlatform(plat)
		family = mapFamily(family)
		version = normalizePlatform(version)

		// Only set fields if we got valid data
		if plat != "" {
			info.Platform = plat
			info.Family = family
			info.Version = version
		}
	}

	return info, nil
}
