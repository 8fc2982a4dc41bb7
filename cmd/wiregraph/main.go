package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/hanpama/wiregraph/internal/compiler"
	"github.com/hanpama/wiregraph/internal/eventbus"
	"github.com/hanpama/wiregraph/internal/identity"
	"github.com/hanpama/wiregraph/internal/language"
	"github.com/hanpama/wiregraph/internal/manifest"
	"github.com/hanpama/wiregraph/internal/otel"
	"github.com/hanpama/wiregraph/internal/scalar"
	"github.com/hanpama/wiregraph/internal/schema"
)

const rootUsage = `wiregraph — GraphQL operation compiler & identity tools

USAGE:
  wiregraph <command> [flags]

COMMANDS:
  compile          Compile operations against a schema and resolve the manifest
  identify         Print identity digests for discovered operations
  schema           Merge & validate GraphQL SDL into a single schema
  help             Show help for any command
`

const compileUsage = `compile FLAGS:
  -schema <file>                  GraphQL SDL file. Repeatable; at least one required
  -operations.root <dir>          Operation documents root (default: .)
  -scalar <Name=HostType>         Map a custom scalar to a host type. Repeatable.
                                  Host types uuid and time bind their adapters;
                                  others fall back to the built-in adapter table.
  -identity.algorithm <name>      sha256 or xxhash64 (default: sha256)
  -manifest.format <name>         none, operation-list or persisted-query-map
  -manifest.out <file>            Write the manifest to file (default: stdout)
  -manifest.operation-list        Legacy switch for the operation-list format;
                                  mutually exclusive with -manifest.format
  -otel.endpoint <addr>           OTLP collector endpoint
  -otel.service <name>            OpenTelemetry service name (default: wiregraph)
  -v                              Verbose logging
  (Prints one "digest  name  type" line per operation)
`

const identifyUsage = `identify FLAGS:
  -schema <file>                  GraphQL SDL file. Repeatable; at least one required
  -operations.root <dir>          Operation documents root (default: .)
  -scalar <Name=HostType>         Map a custom scalar to a host type. Repeatable
  -identity.algorithm <name>      sha256 or xxhash64 (default: sha256)
  -v                              Verbose logging
  (Prints one "digest  name  type" line per operation; never writes a manifest)
`

const schemaUsage = `schema FLAGS:
  -schema <file>  GraphQL SDL file. Repeatable; at least one required
  -out <file>     Write rendered SDL to file (default: stdout)
  (Validation always runs; exits non-zero on errors)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("wiregraph", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "compile":
		return cmdCompile(cmdArgs)
	case "identify":
		return cmdIdentify(cmdArgs)
	case "schema":
		return cmdSchema(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "compile":
		fmt.Print(compileUsage)
	case "identify":
		fmt.Print(identifyUsage)
	case "schema":
		fmt.Print(schemaUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// scalarFlag accumulates -scalar Name=HostType mappings. The host types
// uuid and time bind the matching adapters; any other host type relies on
// the built-in adapter table.
type scalarFlag struct {
	m map[string]scalar.Registration
}

func (f *scalarFlag) String() string { return "" }

func (f *scalarFlag) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid scalar mapping %q", v)
	}
	name := strings.TrimSpace(parts[0])
	hostType := strings.TrimSpace(parts[1])
	if name == "" || hostType == "" {
		return fmt.Errorf("invalid scalar mapping %q", v)
	}
	reg := scalar.Registration{HostType: hostType}
	switch hostType {
	case "uuid":
		reg.Adapter = scalar.UUID
	case "time":
		reg.Adapter = scalar.Time
	}
	if f.m == nil {
		f.m = map[string]scalar.Registration{}
	}
	f.m[name] = reg
	return nil
}

func algorithmByName(name string) (identity.Algorithm, error) {
	switch name {
	case "sha256":
		return identity.SHA256, nil
	case "xxhash64":
		return identity.XXHash64, nil
	default:
		return nil, fmt.Errorf("unknown identity algorithm %q (want sha256 or xxhash64)", name)
	}
}

func readSchemaSources(files []string) ([]*language.Source, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one -schema file is required")
	}
	sources := make([]*language.Source, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read schema %q: %w", file, err)
		}
		sources = append(sources, &language.Source{Name: file, Input: string(content)})
	}
	return sources, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func printDigests(m *manifest.Manifest) {
	for _, entry := range m.Entries {
		fmt.Printf("%s  %s  %s\n", entry.Identity.Digest, entry.Name, entry.Type)
	}
}

func cmdCompile(args []string) error {
	operationsRoot := "."
	format := ""
	outFile := ""
	legacyList := false
	algorithmName := "sha256"
	otelEndpoint := ""
	otelService := "wiregraph"
	verbose := false
	var schemaFiles stringListFlag
	var scalars scalarFlag

	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&schemaFiles, "schema", "GraphQL SDL file")
	fs.StringVar(&operationsRoot, "operations.root", operationsRoot, "Operation documents root")
	fs.Var(&scalars, "scalar", "Map a custom scalar to a host type")
	fs.StringVar(&algorithmName, "identity.algorithm", algorithmName, "Identity algorithm")
	fs.StringVar(&format, "manifest.format", format, "Manifest format")
	fs.StringVar(&outFile, "manifest.out", outFile, "Write the manifest to file")
	fs.BoolVar(&legacyList, "manifest.operation-list", legacyList, "Legacy operation-list switch")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	fs.BoolVar(&verbose, "v", verbose, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileUsage)
		return err
	}

	sources, err := readSchemaSources(schemaFiles)
	if err != nil {
		fmt.Fprint(os.Stderr, compileUsage)
		return err
	}
	manifestFormat, err := manifest.ParseFormat(format)
	if err != nil {
		return err
	}
	alg, err := algorithmByName(algorithmName)
	if err != nil {
		return err
	}
	discovery, err := compiler.NewFileSystemDiscovery(operationsRoot)
	if err != nil {
		return err
	}
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	res, err := compiler.Compile(context.Background(), compiler.Config{
		Schema:              sources,
		Operations:          discovery,
		Scalars:             scalars.m,
		Algorithm:           alg,
		ManifestFormat:      manifestFormat,
		LegacyOperationList: legacyList,
		Logger:              logger,
	})
	if err != nil {
		return err
	}

	printDigests(res.Manifest)
	rendered := res.Manifest.Render()
	if rendered == nil {
		return nil
	}
	if outFile == "" {
		fmt.Print(string(rendered))
		return nil
	}
	return os.WriteFile(outFile, rendered, 0644)
}

func cmdIdentify(args []string) error {
	operationsRoot := "."
	algorithmName := "sha256"
	verbose := false
	var schemaFiles stringListFlag
	var scalars scalarFlag

	fs := flag.NewFlagSet("identify", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&schemaFiles, "schema", "GraphQL SDL file")
	fs.StringVar(&operationsRoot, "operations.root", operationsRoot, "Operation documents root")
	fs.Var(&scalars, "scalar", "Map a custom scalar to a host type")
	fs.StringVar(&algorithmName, "identity.algorithm", algorithmName, "Identity algorithm")
	fs.BoolVar(&verbose, "v", verbose, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, identifyUsage)
		return err
	}

	sources, err := readSchemaSources(schemaFiles)
	if err != nil {
		fmt.Fprint(os.Stderr, identifyUsage)
		return err
	}
	alg, err := algorithmByName(algorithmName)
	if err != nil {
		return err
	}
	discovery, err := compiler.NewFileSystemDiscovery(operationsRoot)
	if err != nil {
		return err
	}
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	res, err := compiler.Compile(context.Background(), compiler.Config{
		Schema:     sources,
		Operations: discovery,
		Scalars:    scalars.m,
		Algorithm:  alg,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	printDigests(res.Manifest)
	return nil
}

func cmdSchema(args []string) error {
	outFile := ""
	var schemaFiles stringListFlag

	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&schemaFiles, "schema", "GraphQL SDL file")
	fs.StringVar(&outFile, "out", outFile, "Write rendered SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, schemaUsage)
		return err
	}

	sources, err := readSchemaSources(schemaFiles)
	if err != nil {
		fmt.Fprint(os.Stderr, schemaUsage)
		return err
	}
	s, err := schema.Load(sources...)
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	sdl := schema.Render(s)
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}
