// Command pandoctree converts documents to and from pandoc wire JSON and
// inspects the document grammar, using a locally installed pandoc for
// anything that is not already JSON.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pandoctree/pandoctree"
	"github.com/pandoctree/pandoctree/grammar"
	"github.com/pandoctree/pandoctree/pandocbin"
)

var (
	verbose      bool
	typesVersion string
	sourceFormat string
	targetFormat string
	outputPath   string
	asRepr       bool
)

func main() {
	root := &cobra.Command{
		Use:   "pandoctree",
		Short: "pandoc document trees on the command line",
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&typesVersion, "types-version", "", "pin a pandoc-types version instead of asking pandoc")

	readCmd := &cobra.Command{
		Use:   "read [file]",
		Short: "convert a document to wire JSON on stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRead,
	}
	readCmd.Flags().StringVarP(&sourceFormat, "from", "f", "", "source format (default: inferred from the file extension)")
	readCmd.Flags().BoolVar(&asRepr, "repr", false, "print the constructor-call tree instead of JSON")

	writeCmd := &cobra.Command{
		Use:   "write [file.json]",
		Short: "render wire JSON into a target format",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWrite,
	}
	writeCmd.Flags().StringVarP(&targetFormat, "to", "t", "markdown", "target format")
	writeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")

	grammarCmd := &cobra.Command{
		Use:   "grammar [name]",
		Short: "print the grammar, or one type or constructor of it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGrammar,
	}

	root.AddCommand(readCmd, writeCmd, grammarCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// schemaContext resolves the schema context: the pinned --types-version if
// given, otherwise the version reported by the local pandoc.
func schemaContext(ctx context.Context) (*pandoctree.Context, error) {
	if typesVersion != "" {
		return pandoctree.NewContext(typesVersion)
	}
	conv, err := pandocbin.NewConverter(ctx)
	if err != nil {
		return nil, err
	}
	return conv.Context(), nil
}

func readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, "", err
	}
	data, err := os.ReadFile(args[0])
	return data, args[0], err
}

func runRead(cmd *cobra.Command, args []string) error {
	data, path, err := readInput(args)
	if err != nil {
		return err
	}
	format := sourceFormat
	if format == "" && path != "" {
		format = pandocbin.FormatFor(path)
	}

	var (
		tree *pandoctree.Context
		doc  *pandoctree.Document
	)
	if format == "json" || (format == "" && looksLikeJSON(data)) {
		// Already wire JSON: decode (and re-encode below) as a validation pass.
		tree, err = schemaContext(cmd.Context())
		if err != nil {
			return err
		}
		doc, err = tree.ReadJSON(data)
		if err != nil {
			return err
		}
	} else {
		conv, err := converter(cmd.Context())
		if err != nil {
			return err
		}
		doc, err = conv.Read(cmd.Context(), data, format)
		if err != nil {
			return err
		}
		tree = conv.Context()
	}

	if asRepr {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), pandoctree.Repr(doc))
		return err
	}
	out, err := tree.WriteJSON(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func runWrite(cmd *cobra.Command, args []string) error {
	data, _, err := readInput(args)
	if err != nil {
		return err
	}
	conv, err := converter(cmd.Context())
	if err != nil {
		return err
	}
	doc, err := conv.Context().ReadJSON(data)
	if err != nil {
		return err
	}
	out, err := conv.Write(cmd.Context(), doc, targetFormat)
	if err != nil {
		return err
	}
	if outputPath != "" {
		return os.WriteFile(outputPath, out, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// converter builds a pandoc-backed converter, honoring --types-version.
func converter(ctx context.Context) (*pandocbin.Converter, error) {
	if typesVersion == "" {
		return pandocbin.NewConverter(ctx)
	}
	bin, err := pandocbin.Locate()
	if err != nil {
		return nil, err
	}
	tree, err := pandoctree.NewContext(typesVersion)
	if err != nil {
		return nil, err
	}
	return pandocbin.NewConverterWith(bin, tree), nil
}

func runGrammar(cmd *cobra.Command, args []string) error {
	version := typesVersion
	if version == "" {
		version = pandoctree.DefaultTypesVersion
	}
	tree, err := pandoctree.NewContext(version)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		decl, err := tree.Types.Resolve(args[0])
		if err != nil {
			return err
		}
		switch d := decl.(type) {
		case *grammar.Type:
			printType(w, d)
		case *grammar.Constructor:
			printConstructor(w, d)
		}
		return nil
	}

	names := tree.Types.Names()
	sort.Strings(names)
	for _, name := range names {
		t, err := tree.Types.Type(name)
		if err != nil {
			return err
		}
		printType(w, t)
	}
	return nil
}

func printType(w io.Writer, t *grammar.Type) {
	if t.Kind == grammar.Alias {
		fmt.Fprintf(w, "%s = %s\n", t.Name, t.Aliased)
		return
	}
	fmt.Fprintf(w, "%s\n", t.Name)
	for _, c := range t.Constructors {
		fmt.Fprint(w, "  ")
		printConstructor(w, c)
	}
}

func printConstructor(w io.Writer, c *grammar.Constructor) {
	parts := []string{c.Name}
	if c.Record {
		fields := make([]string, len(c.Fields))
		for i, f := range c.Fields {
			fields[i] = f.Name + " " + f.Type.String()
		}
		parts = append(parts, "{"+strings.Join(fields, ", ")+"}")
	} else {
		for _, f := range c.Fields {
			parts = append(parts, f.Type.String())
		}
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

func looksLikeJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}
