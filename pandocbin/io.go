package pandocbin

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pandoctree/pandoctree"
)

// Read converts input in the given source format to a document by piping it
// through pandoc into wire JSON. Input text is normalized to UTF-8 first;
// pandoc itself rejects anything else.
func (c *Converter) Read(ctx context.Context, input []byte, format string) (*pandoctree.Document, error) {
	if format == "" {
		format = "markdown"
	}
	norm, err := NormalizeUTF8(input)
	if err != nil {
		return nil, fmt.Errorf("pandocbin: transcode input: %w", err)
	}
	out, err := c.run(ctx, norm, "-f", format, "-t", "json")
	if err != nil {
		return nil, err
	}
	return c.tree.ReadJSON(out)
}

// ReadFile is Read with the format inferred from the file extension.
func (c *Converter) ReadFile(ctx context.Context, path string) (*pandoctree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.Read(ctx, data, FormatFor(path))
}

// Write renders a document into the given target format. Text formats come
// back from pandoc's stdout; binary formats go through a scratch file.
func (c *Converter) Write(ctx context.Context, doc *pandoctree.Document, format string) ([]byte, error) {
	if format == "" {
		format = "markdown"
	}
	wire, err := c.tree.WriteJSON(doc)
	if err != nil {
		return nil, err
	}
	if !BinaryOutput(format) {
		return c.run(ctx, wire, "-f", "json", "-t", format)
	}

	dir, err := os.MkdirTemp("", "pandocbin-")
	if err != nil {
		return nil, err
	}
	defer removeAllRetry(dir)
	outPath := filepath.Join(dir, "out"+ExtFor(format))
	if _, err := c.run(ctx, wire, "-f", "json", "-t", format, "-o", outPath); err != nil {
		return nil, err
	}
	return os.ReadFile(outPath)
}

// WriteFile renders a document to path, inferring the format from the
// extension.
func (c *Converter) WriteFile(ctx context.Context, doc *pandoctree.Document, path string) error {
	out, err := c.Write(ctx, doc, FormatFor(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func (c *Converter) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := execCommand(ctx, c.bin, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.WithField("args", args).Debug("running pandoc")
	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, fmt.Errorf("pandocbin: pandoc %v: %s: %w", args, msg, err)
		}
		return nil, fmt.Errorf("pandocbin: pandoc %v: %w", args, err)
	}
	return stdout.Bytes(), nil
}

// NormalizeUTF8 converts UTF-16 input (detected by BOM) to UTF-8 and strips
// a UTF-8 BOM. Input without a BOM passes through unchanged.
func NormalizeUTF8(data []byte) ([]byte, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// removeAllRetry removes a scratch directory, retrying briefly: on some
// platforms the files stay locked for a moment after the child process
// exits.
func removeAllRetry(dir string) {
	var err error
	for i := 0; i < 5; i++ {
		if err = os.RemoveAll(dir); err == nil {
			return
		}
		time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
	log.WithField("dir", dir).WithError(err).Warn("failed to remove scratch directory")
}
