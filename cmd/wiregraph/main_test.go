package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/hanpama/wiregraph/internal/manifest"
)

const heroDigest = "45d2bec21196f9c5fc48f109c0127de52ccda1ef26e3fa2ff06a687395652403"

func fixturePath(elem ...string) string {
	return filepath.Join(append([]string{"..", "..", "tests", "starwars"}, elem...)...)
}

func captureOutput(t *testing.T, fn func() error) (stdout, stderr string, err error) {
	t.Helper()
	oldOut, oldErr := os.Stdout, os.Stderr
	defer func() {
		os.Stdout, os.Stderr = oldOut, oldErr
	}()

	outR, outW, _ := os.Pipe()
	errR, errW, _ := os.Pipe()
	os.Stdout, os.Stderr = outW, errW

	doneOut := make(chan struct{})
	var bufOut bytes.Buffer
	go func() { io.Copy(&bufOut, outR); close(doneOut) }()

	doneErr := make(chan struct{})
	var bufErr bytes.Buffer
	go func() { io.Copy(&bufErr, errR); close(doneErr) }()

	err = fn()
	outW.Close()
	errW.Close()
	<-doneOut
	<-doneErr
	stdout, stderr = bufOut.String(), bufErr.String()
	return
}

func TestHelp(t *testing.T) {
	out, _, err := captureOutput(t, func() error {
		return run([]string{"help", "compile"})
	})
	require.NoError(t, err)
	require.Contains(t, out, "compile FLAGS")
}

func TestCompile(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "manifest.json")
	out, _, err := captureOutput(t, func() error {
		return run([]string{
			"compile",
			"-schema", fixturePath("schema.graphql"),
			"-operations.root", fixturePath("operations"),
			"-manifest.format", "persisted-query-map",
			"-manifest.out", outFile,
		})
	})
	require.NoError(t, err)
	require.Contains(t, out, heroDigest+"  Hero  query")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	require.Equal(t, "Hero", gjson.GetBytes(data, heroDigest+".name").String())
	require.Equal(t, "query", gjson.GetBytes(data, heroDigest+".type").String())
	require.Equal(t, "query Hero { hero { name } }", gjson.GetBytes(data, heroDigest+".document").String())
}

func TestCompileManifestToStdout(t *testing.T) {
	out, _, err := captureOutput(t, func() error {
		return run([]string{
			"compile",
			"-schema", fixturePath("schema.graphql"),
			"-operations.root", fixturePath("operations"),
			"-manifest.format", "operation-list",
		})
	})
	require.NoError(t, err)
	require.Contains(t, out, `"name": "CreateReview"`)
	require.Contains(t, out, `"type": "mutation"`)
}

func TestCompileFormatConflict(t *testing.T) {
	_, _, err := captureOutput(t, func() error {
		return run([]string{
			"compile",
			"-schema", fixturePath("schema.graphql"),
			"-operations.root", fixturePath("operations"),
			"-manifest.format", "persisted-query-map",
			"-manifest.operation-list",
		})
	})
	var conflict *manifest.ConfigurationConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestIdentify(t *testing.T) {
	out, _, err := captureOutput(t, func() error {
		return run([]string{
			"identify",
			"-schema", fixturePath("schema.graphql"),
			"-operations.root", fixturePath("operations"),
		})
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "CreateReview  mutation")
	require.Equal(t, heroDigest+"  Hero  query", lines[1])
	require.Contains(t, lines[2], "HeroDetails  query")
}

func TestIdentifyXXHash(t *testing.T) {
	out, _, err := captureOutput(t, func() error {
		return run([]string{
			"identify",
			"-schema", fixturePath("schema.graphql"),
			"-operations.root", fixturePath("operations"),
			"-identity.algorithm", "xxhash64",
		})
	})
	require.NoError(t, err)
	require.Regexp(t, `^[0-9a-f]{16}  CreateReview  mutation`, out)
}

func TestSchema(t *testing.T) {
	out, _, err := captureOutput(t, func() error {
		return run([]string{"schema", "-schema", fixturePath("schema.graphql")})
	})
	require.NoError(t, err)
	require.Contains(t, out, "type Query")
	require.Contains(t, out, "union SearchResult")
}

func TestMissingSchemaFlag(t *testing.T) {
	_, stderr, err := captureOutput(t, func() error {
		return run([]string{"identify"})
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "at least one -schema file is required")
	require.Contains(t, stderr, "identify FLAGS")
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, err := captureOutput(t, func() error {
		return run([]string{"frobnicate"})
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown command "frobnicate"`)
	require.Contains(t, stderr, "COMMANDS:")
}
