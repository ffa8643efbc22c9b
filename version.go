package pandoctree

import (
	"strconv"
	"strings"
)

// Version is a dotted schema version, kept as its integer components so that
// 1.17.0.4 and 1.9 compare correctly.
type Version []int

// ParseVersion parses a dotted version string such as "1.22.2".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	v := make(Version, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, issuef(CodeUnsupportedVersion, "", s, "invalid version string %q", s)
		}
		v = append(v, n)
	}
	if len(v) == 0 {
		return nil, issuef(CodeUnsupportedVersion, "", s, "empty version string")
	}
	return v, nil
}

// String renders the version back into dotted form.
func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Compare orders versions component-wise, treating missing components as
// zero: 1.17 < 1.17.0.4 < 1.22.
func (v Version) Compare(w Version) int {
	n := len(v)
	if len(w) > n {
		n = len(w)
	}
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(v) {
			a = v[i]
		}
		if i < len(w) {
			b = w[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v >= the version given by parts.
func (v Version) AtLeast(parts ...int) bool {
	return v.Compare(Version(parts)) >= 0
}

// generation selects one of the two wire-format rule sets. The split point is
// pandoc-types 1.17, which introduced the object document envelope.
type generation int

const (
	genV1 generation = iota + 1 // < 1.17: [meta, blocks] envelope, "unMeta" wrapper
	genV2                       // >= 1.17: object envelope with pandoc-api-version
)

var (
	oldestSupported = Version{1, 8}
	v2Threshold     = Version{1, 17}
)

// generationFor resolves the codec generation for a pandoc-types version.
func generationFor(v Version) (generation, error) {
	if len(v) == 0 || v[0] != 1 || v.Compare(oldestSupported) < 0 {
		return 0, issuef(CodeUnsupportedVersion, "", v.String(),
			"pandoc-types %s has no matching codec generation", v.String())
	}
	if v.Compare(v2Threshold) < 0 {
		return genV1, nil
	}
	return genV2, nil
}
