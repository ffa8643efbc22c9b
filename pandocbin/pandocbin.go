// Package pandocbin drives an installed pandoc executable: it locates the
// binary, maps its version to the pandoc-types schema it speaks, and pipes
// documents through it as wire JSON.
package pandocbin

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pandoctree/pandoctree"
)

var log = logrus.WithField("component", "pandocbin")

// execCommand is swappable for tests that must not spawn pandoc.
var execCommand = exec.CommandContext

// Locate returns the path of the pandoc executable: the PANDOC environment
// variable when set, otherwise a PATH lookup.
func Locate() (string, error) {
	if p := os.Getenv("PANDOC"); p != "" {
		return p, nil
	}
	path, err := exec.LookPath("pandoc")
	if err != nil {
		return "", pandoctree.Issues{pandoctree.Issue{
			Code:    pandoctree.CodeUnsupportedVersion,
			Message: "pandoc executable not found; install pandoc or set PANDOC",
			Cause:   err,
		}}
	}
	return path, nil
}

// QueryVersion runs `pandoc --version` and parses the reported version.
func QueryVersion(ctx context.Context, bin string) (pandoctree.Version, error) {
	out, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		return nil, pandoctree.Issues{pandoctree.Issue{
			Code:    pandoctree.CodeUnsupportedVersion,
			Message: "pandoc --version failed",
			Cause:   err,
		}}
	}
	return ParseVersionOutput(out)
}

// ParseVersionOutput extracts the version from `pandoc --version` output,
// whose first line reads "pandoc 2.14.2" (possibly with a suffix).
func ParseVersionOutput(out []byte) (pandoctree.Version, error) {
	line := out
	if i := bytes.IndexByte(out, '\n'); i >= 0 {
		line = out[:i]
	}
	fields := strings.Fields(strings.TrimSpace(string(line)))
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "pandoc") {
		return nil, pandoctree.Issues{pandoctree.Issue{
			Code:    pandoctree.CodeUnsupportedVersion,
			Message: "unrecognized pandoc --version output",
		}}
	}
	return pandoctree.ParseVersion(fields[1])
}

// typesByPandoc maps pandoc release lines to the pandoc-types version they
// emit, newest first. Releases between two rows speak the older schema.
var typesByPandoc = []struct {
	pandoc pandoctree.Version
	types  pandoctree.Version
}{
	{pandoctree.Version{3, 0}, pandoctree.Version{1, 23}},
	{pandoctree.Version{2, 11}, pandoctree.Version{1, 22}},
	{pandoctree.Version{2, 10}, pandoctree.Version{1, 21}},
	{pandoctree.Version{2, 8}, pandoctree.Version{1, 20}},
	{pandoctree.Version{2, 0}, pandoctree.Version{1, 17, 3}},
	{pandoctree.Version{1, 18}, pandoctree.Version{1, 17}},
	{pandoctree.Version{1, 16}, pandoctree.Version{1, 16}},
	{pandoctree.Version{1, 8}, pandoctree.Version{1, 12, 3}},
}

// ResolveTypesVersion maps a pandoc version to the pandoc-types version its
// JSON output follows.
func ResolveTypesVersion(pandocVersion pandoctree.Version) (pandoctree.Version, error) {
	for _, row := range typesByPandoc {
		if pandocVersion.Compare(row.pandoc) >= 0 {
			return row.types, nil
		}
	}
	return nil, pandoctree.Issues{pandoctree.Issue{
		Code:    pandoctree.CodeUnsupportedVersion,
		Name:    pandocVersion.String(),
		Message: "pandoc " + pandocVersion.String() + " predates the supported schema range",
	}}
}

// Converter binds one pandoc binary to the schema context matching its
// version. Build it once and share it; the underlying context is read-only.
type Converter struct {
	bin  string
	tree *pandoctree.Context
}

// NewConverter locates pandoc, queries its version, and builds the matching
// schema context.
func NewConverter(ctx context.Context) (*Converter, error) {
	bin, err := Locate()
	if err != nil {
		return nil, err
	}
	pv, err := QueryVersion(ctx, bin)
	if err != nil {
		return nil, err
	}
	tv, err := ResolveTypesVersion(pv)
	if err != nil {
		return nil, err
	}
	tree, err := pandoctree.NewContextVersion(tv)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"bin":          bin,
		"pandoc":       pv.String(),
		"pandoc-types": tv.String(),
	}).Debug("converter ready")
	return &Converter{bin: bin, tree: tree}, nil
}

// NewConverterWith binds an explicit binary path and schema context,
// bypassing discovery. Intended for callers that pin versions themselves.
func NewConverterWith(bin string, tree *pandoctree.Context) *Converter {
	return &Converter{bin: bin, tree: tree}
}

// Context returns the schema context the converter decodes and encodes with.
func (c *Converter) Context() *pandoctree.Context { return c.tree }

// Bin returns the pandoc executable path in use.
func (c *Converter) Bin() string { return c.bin }
