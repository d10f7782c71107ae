package trainer

import (
	"fmt"
	"strconv"
	"strings"

	"animeRecommendator/domain"
)

// NextVersion returns the version string following current in the total
// order: "none" -> "v1", "v7" -> "v8". An unparseable current version maps
// to "v1" rather than failing a training run.
func NextVersion(current string) string {
	if current == domain.VersionNone || current == "" {
		return "v1"
	}
	n, err := strconv.Atoi(strings.TrimPrefix(current, "v"))
	if err != nil || n < 0 {
		return "v1"
	}
	return fmt.Sprintf("v%d", n+1)
}

// VersionNumber extracts the numeric suffix of a version string for the
// model-version gauge. "none" and malformed versions map to 0.
func VersionNumber(version string) int {
	if version == domain.VersionNone || version == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(version, "v"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
