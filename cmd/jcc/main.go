package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/c8ef/jcc"
)

const defaultWritePermission = 0644 // -rw-r--r--

type args struct {
	astOnly    bool
	outputPath string
	inputPath  string
}

// parseArgs parses argv (excluding the program name), writing usage text to
// out on a flag error or wrong positional arity. Wrong arity is reported as
// flag.ErrHelp, matching flag.Parse's own convention for -h/-help, so the
// caller has one error value to check before exiting 1.
func parseArgs(argv []string, out io.Writer) (*args, error) {
	fs := flag.NewFlagSet("jcc", flag.ContinueOnError)
	fs.SetOutput(out)
	astOnly := fs.Bool("ast-only", false, "Dump the parsed AST instead of emitting assembly")
	outputPath := fs.String("o", "", "Path to the output .s file (defaults to the input path with a .c/.h extension replaced by .s, or .s appended otherwise)")
	fs.Usage = func() {
		fmt.Fprintf(out, "usage: jcc [flags] <input.c>\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, flag.ErrHelp
	}
	return &args{astOnly: *astOnly, outputPath: *outputPath, inputPath: fs.Arg(0)}, nil
}

func main() {
	a, err := parseArgs(os.Args[1:], os.Stdout)
	if err != nil {
		os.Exit(1)
	}

	contents, err := os.ReadFile(a.inputPath)
	if err != nil {
		log.Fatalf("can't open input file: %s", err.Error())
	}

	src := jcc.NewSource(a.inputPath, contents)
	cfg := jcc.NewConfig()
	cfg.DumpAST = a.astOnly

	unit, asm, err := jcc.Compile(src, cfg)
	if err != nil {
		log.Fatal(err.Error())
	}

	if a.astOnly {
		fmt.Print(jcc.DumpAST(unit))
		return
	}

	outputPath := a.outputPath
	if outputPath == "" {
		outputPath = outputPathFor(a.inputPath)
	}
	if err := os.WriteFile(outputPath, []byte(asm), defaultWritePermission); err != nil {
		log.Fatalf("can't write output: %s", err.Error())
	}
}

// outputPathFor derives `foo.s` from `foo.c` or `foo.h`; any other input
// path gets `.s` appended (`foo.txt` becomes `foo.txt.s`).
func outputPathFor(inputPath string) string {
	ext := filepath.Ext(inputPath)
	if ext == ".c" || ext == ".h" {
		return strings.TrimSuffix(inputPath, ext) + ".s"
	}
	return inputPath + ".s"
}
