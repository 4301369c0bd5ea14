package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confseed/confseed/pkg/errors"
)

const testVariable = "CONFSEED_DEPLOY_TEST"

func TestEnvLoaderSingleObject(t *testing.T) {
	t.Setenv(testVariable, `{"config": "/etc/app.conf", "assign": {"pwd": "ENV_PASSWORD"}}`)

	descs, err := NewEnvLoader(testVariable).Load()
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "/etc/app.conf", descs[0].Common().ConfigID)
}

func TestEnvLoaderArray(t *testing.T) {
	t.Setenv(testVariable, `[
		{"config": "/etc/app.conf", "assign": {"pwd": "ENV_PASSWORD"}},
		{"config": "/etc/db.conf", "templatize": false}
	]`)

	descs, err := NewEnvLoader(testVariable).Load()
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.True(t, descs[0].Common().Templatize)
	assert.False(t, descs[1].Common().Templatize)
}

func TestEnvLoaderMissingVariable(t *testing.T) {
	_, err := NewEnvLoader("CONFSEED_DEPLOY_DOES_NOT_EXIST").Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnavailable))
}

func TestEnvLoaderMalformedJSON(t *testing.T) {
	t.Setenv(testVariable, `{"config": `)
	_, err := NewEnvLoader(testVariable).Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnavailable))
}

func TestEnvLoaderBadRecord(t *testing.T) {
	t.Setenv(testVariable, `[{"config": "/etc/app.conf", "assign": {}}]`)
	_, err := NewEnvLoader(testVariable).Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrDescriptorInvalid))
}

func TestEnvLoaderScalarDocument(t *testing.T) {
	t.Setenv(testVariable, `"just a string"`)
	_, err := NewEnvLoader(testVariable).Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnavailable))
}

func writeDescriptorFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileLoaderFormats(t *testing.T) {
	jsonDoc := `[{"config": "/etc/app.conf", "assign": {"pwd": "ENV_PASSWORD"}, "persist": true}]`
	yamlDoc := `
deployments:
  - config: /etc/app.conf
    assign:
      pwd: ENV_PASSWORD
    persist: true
`
	tomlDoc := `
[[deployments]]
config = "/etc/app.conf"
persist = true

[deployments.assign]
pwd = "ENV_PASSWORD"
`

	docs := map[string]string{
		"deploy.json": jsonDoc,
		"deploy.yaml": yamlDoc,
		"deploy.toml": tomlDoc,
	}

	for name, content := range docs {
		t.Run(name, func(t *testing.T) {
			path := writeDescriptorFile(t, name, content)
			descs, err := NewFileLoader(path).Load()
			require.NoError(t, err)
			require.Len(t, descs, 1)

			ini, ok := descs[0].(*IniFile)
			require.True(t, ok)
			assert.Equal(t, "/etc/app.conf", ini.ConfigID)
			assert.Equal(t, map[string]string{"pwd": "ENV_PASSWORD"}, ini.Assignments)
			assert.True(t, ini.Persist)
		})
	}
}

func TestFileLoaderUnsupportedFormat(t *testing.T) {
	path := writeDescriptorFile(t, "deploy.ini", "config=/etc/app.conf")
	_, err := NewFileLoader(path).Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnavailable))
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "missing.json")).Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnavailable))
}
