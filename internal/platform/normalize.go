package platform

import (
	"fmt"
	"strings"
)

// familyMap maps distribution names to their canonical family names.
// This is used to normalize variations of family strings from gopsutil.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// supportedArch validates that the host architecture is one we can build
// download URLs for.
func supportedArch(arch string) (string, error) {
	switch arch {
	case "amd64", "arm64", "386":
		return arch, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", arch)
	}
}

// downloadArch converts GOARCH values to the architecture names upstream
// release URLs use. Most distributors follow the Go naming, except 32-bit
// x86 which is published as "i386".
func downloadArch(arch string) string {
	switch arch {
	case "386":
		return "i386"
	default:
		return arch
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
