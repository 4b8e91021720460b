package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/xbrl-engine/factory"
	"github.com/warp/xbrl-engine/xbrl"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := rootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSampleThenRender(t *testing.T) {
	// GIVEN: The sample operating definition printed by "sample"
	// WHEN: It is piped into "render" in both formats
	// THEN: Both documents carry the eight production facts

	definition, _, err := execute(t, "", "sample", "operating", "--entity", "Acme Solar")
	require.NoError(t, err)
	assert.Contains(t, definition, `"entity": "Acme Solar"`)

	out, _, err := execute(t, definition, "render", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 8, strings.Count(out, `unitRef="kWh"`))
	assert.Contains(t, out, ">Acme Solar</identifier>")

	out, _, err = execute(t, definition, "render", "-", "--format", "json")
	require.NoError(t, err)
	var flat xbrl.FlatDocument
	require.NoError(t, json.Unmarshal([]byte(out), &flat))
	assert.Len(t, flat.Facts, 8)
}

func TestRender_JSONCFileToOutput(t *testing.T) {
	// GIVEN: A definition with comments and trailing commas
	// WHEN: Rendered to a file in a new directory
	// THEN: The file holds the document and stdout stays empty

	dir := t.TempDir()
	input := filepath.Join(dir, "sheet.jsonc")
	require.NoError(t, os.WriteFile(input, []byte(`{
  // one system, one array
  "kind": "installation",
  "report_date": "2020-06-30",
  "systems": [
    {"id": "1", "arrays": [{"tilt": 20, "azimuth": 180,},],},
  ],
}`), 0644))

	output := filepath.Join(dir, "out", "sheet.xml")
	stdout, _, err := execute(t, "", "render", input, "--out", output)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	body, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(body), `<instant>2020-06-30</instant>`)
	assert.Contains(t, string(body), `unitRef="degrees" decimals="0">20</solar:OrientationTilt>`)
	assert.Contains(t, string(body), ">"+factory.DefaultEntity+"</identifier>")
}

func TestRender_WarningsGoToStderr(t *testing.T) {
	definition := `{"kind": "installation", "report_date": "2020-06-30", "systems": [{"id": "7"}]}`

	_, stderr, err := execute(t, definition, "render", "-")
	require.NoError(t, err)
	assert.Contains(t, stderr, "no array data")
	assert.Contains(t, stderr, "no site data")
}

func TestRender_ConfigEntity(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("report:\n  entity: Configured Co\n"), 0644))

	out, _, err := execute(t, `{"kind": "operating"}`, "render", "-", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, ">Configured Co</identifier>")
}

func TestRender_Errors(t *testing.T) {
	_, _, err := execute(t, `{"kind": "operating"}`, "render", "-", "--format", "yaml")
	assert.ErrorIs(t, err, factory.ErrInvalidReport)

	_, _, err = execute(t, `{"kind": "installation", "systems": [{"id": "1", "fields": {"colour": "red"}}]}`, "render", "-")
	assert.ErrorIs(t, err, xbrl.ErrUnknownConcept)

	_, _, err = execute(t, "", "render", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, _, err = execute(t, "", "render")
	assert.Error(t, err)

	_, _, err = execute(t, "", "sample", "wind")
	assert.ErrorContains(t, err, "unknown sample")
}

func TestTaxonomies(t *testing.T) {
	out, _, err := execute(t, "", "taxonomies")
	require.NoError(t, err)
	assert.Contains(t, out, "solar\thttp://xbrl.us/Solar/v1.2/2018-03-31/solar\t")
	assert.Contains(t, out, "  solar:SiteIdentifierAxis -> SiteIdentifierDomain\n")
}
