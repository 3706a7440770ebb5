package catalog

import (
	"slices"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/samber/lo"
)

// LatestToken is the version token az resolves to the newest image version.
const LatestToken = "latest"

// CompareVersions orders two image versions by their dotted numeric
// segments, so "1.2.9" < "1.2.10". Missing trailing segments count as zero.
// Versions that do not parse as numbers sort before those that do and are
// compared lexically among themselves.
func CompareVersions(a, b string) int {
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	default:
		return 1
	}
}

// SortVersions returns a new ascending, numerically ordered slice with
// duplicates removed.
func SortVersions(versions []string) []string {
	sorted := lo.Uniq(versions)
	slices.SortStableFunc(sorted, CompareVersions)
	return sorted
}

// LatestVersion returns the numerically greatest version, or false when
// versions is empty.
func LatestVersion(versions []string) (string, bool) {
	if len(versions) == 0 {
		return "", false
	}
	return slices.MaxFunc(versions, CompareVersions), true
}

// RecentVersions returns at most limit versions, newest first.
func RecentVersions(versions []string, limit int) []string {
	sorted := SortVersions(versions)
	slices.Reverse(sorted)
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
