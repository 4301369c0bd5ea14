package deploy

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confseed/confseed/pkg/config"
	"github.com/confseed/confseed/pkg/descriptor"
	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/provider"
	"github.com/confseed/confseed/pkg/testutil"
)

func testSettings() *config.Settings {
	return &config.Settings{
		Template: config.TemplateSettings{Prefix: "{{.", Suffix: "}}", Extension: ".tmpl"},
		Source:   config.SourceSettings{Variable: "CONFSEED_DEPLOY"},
		Secrets:  config.SecretsSettings{Provider: "env", Dir: "/run/secrets"},
	}
}

// staticLoader feeds pre-built descriptors into a run.
type staticLoader struct {
	descs []descriptor.Descriptor
}

func (l *staticLoader) Load() ([]descriptor.Descriptor, error) {
	return l.descs, nil
}

func iniDescriptor(t *testing.T, configID string, assign map[string]string) *descriptor.IniFile {
	t.Helper()
	d := descriptor.NewIniFile()
	d.ConfigID = configID
	d.Assignments = assign
	require.NoError(t, d.Validate())
	return d
}

func TestDeployTemplatizeAndPersist(t *testing.T) {
	dir := t.TempDir()
	configPath := testutil.CreateFile(t, dir, "app.conf", "pwd=secret123\n")

	result, err := Deploy(Options{
		Loader:   &staticLoader{descs: []descriptor.Descriptor{iniDescriptor(t, configPath, map[string]string{"pwd": "ENV_PASSWORD"})}},
		Provider: provider.NewStatic(map[string]string{"ENV_PASSWORD": "bLupdLr4R2HY"}),
		Settings: testSettings(),
	})
	require.NoError(t, err)
	require.Len(t, result.Deployments, 1)

	deployment := result.Deployments[0]
	assert.Equal(t, StatePersisted, deployment.State)
	assert.Equal(t, []string{"pwd"}, deployment.TemplatizeReport.Active)
	assert.Equal(t, []string{"ENV_PASSWORD"}, deployment.InstantiateReport.Resolved)

	assert.Equal(t, "pwd= bLupdLr4R2HY\n", testutil.ReadFile(t, configPath))
	assert.NoFileExists(t, configPath+".tmpl", "template persists only when requested")
}

func TestDeployPersistsTemplate(t *testing.T) {
	dir := t.TempDir()
	configPath := testutil.CreateFile(t, dir, "app.conf", "pwd=secret123\n")

	d := iniDescriptor(t, configPath, map[string]string{"pwd": "ENV_PASSWORD"})
	d.Persist = true

	_, err := Deploy(Options{
		Loader:   &staticLoader{descs: []descriptor.Descriptor{d}},
		Provider: provider.NewStatic(map[string]string{"ENV_PASSWORD": "x"}),
		Settings: testSettings(),
	})
	require.NoError(t, err)

	assert.Equal(t, "pwd= {{.ENV_PASSWORD}}\n", testutil.ReadFile(t, configPath+".tmpl"))
}

func TestDeployFromExistingTemplate(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "app.conf")
	testutil.CreateFile(t, dir, "app.conf.tmpl", "pwd= {{.ENV_PASSWORD}}\n")

	d := descriptor.NewIniFile()
	d.ConfigID = configPath
	d.Templatize = false
	require.NoError(t, d.Validate())

	result, err := Deploy(Options{
		Loader:   &staticLoader{descs: []descriptor.Descriptor{d}},
		Provider: provider.NewStatic(map[string]string{"ENV_PASSWORD": "hunter2"}),
		Settings: testSettings(),
	})
	require.NoError(t, err)

	assert.Equal(t, StatePersisted, result.Deployments[0].State)
	assert.Nil(t, result.Deployments[0].TemplatizeReport)
	assert.Equal(t, "pwd= hunter2\n", testutil.ReadFile(t, configPath))
}

func TestDeployMissingConfiguration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing.conf")
	d := iniDescriptor(t, configPath, map[string]string{"pwd": "ENV_PASSWORD"})

	result, err := Deploy(Options{
		Loader:   &staticLoader{descs: []descriptor.Descriptor{d}},
		Provider: provider.NewStatic(nil),
		Settings: testSettings(),
	})
	require.Error(t, err)
	testutil.AssertErrorCode(t, err, errors.ErrConfigMissing)
	assert.Equal(t, StateFailed, result.Deployments[0].State)
}

func TestDeployMissingTemplate(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "app.conf")
	d := descriptor.NewIniFile()
	d.ConfigID = configPath
	d.Templatize = false
	require.NoError(t, d.Validate())

	_, err := Deploy(Options{
		Loader:   &staticLoader{descs: []descriptor.Descriptor{d}},
		Provider: provider.NewStatic(nil),
		Settings: testSettings(),
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateMissing))
}

func TestDeployUnresolvedPlaceholderWritesNothing(t *testing.T) {
	dir := t.TempDir()
	configPath := testutil.CreateFile(t, dir, "app.conf", "pwd=secret123\n")
	d := iniDescriptor(t, configPath, map[string]string{"pwd": "ENV_PASSWORD"})

	result, err := Deploy(Options{
		Loader:   &staticLoader{descs: []descriptor.Descriptor{d}},
		Provider: provider.NewStatic(nil),
		Settings: testSettings(),
	})
	require.Error(t, err)
	testutil.AssertErrorCode(t, err, errors.ErrPlaceholderUnresolved)
	assert.Equal(t, StateFailed, result.Deployments[0].State)

	// The configuration file is untouched on the failure path.
	assert.Equal(t, "pwd=secret123\n", testutil.ReadFile(t, configPath))
}

func TestDeployDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	configPath := testutil.CreateFile(t, dir, "app.conf", "pwd=secret123\n")

	d := iniDescriptor(t, configPath, map[string]string{"pwd": "ENV_PASSWORD"})
	d.Persist = true

	result, err := Deploy(Options{
		Loader:   &staticLoader{descs: []descriptor.Descriptor{d}},
		Provider: provider.NewStatic(map[string]string{"ENV_PASSWORD": "x"}),
		Settings: testSettings(),
		DryRun:   true,
	})
	require.NoError(t, err)

	deployment := result.Deployments[0]
	assert.Equal(t, StateInstantiated, deployment.State)
	assert.Equal(t, "pwd= x\n", deployment.Config)

	assert.Equal(t, "pwd=secret123\n", testutil.ReadFile(t, configPath))
	assert.NoFileExists(t, configPath+".tmpl")
}

func TestDeployBatchStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	goodPath := testutil.CreateFile(t, dir, "good.conf", "pwd=a\n")
	badPath := filepath.Join(dir, "missing.conf")
	unreachedPath := testutil.CreateFile(t, dir, "unreached.conf", "pwd=c\n")

	descs := []descriptor.Descriptor{
		iniDescriptor(t, goodPath, map[string]string{"pwd": "ENV_PASSWORD"}),
		iniDescriptor(t, badPath, map[string]string{"pwd": "ENV_PASSWORD"}),
		iniDescriptor(t, unreachedPath, map[string]string{"pwd": "ENV_PASSWORD"}),
	}

	result, err := Deploy(Options{
		Loader:   &staticLoader{descs: descs},
		Provider: provider.NewStatic(map[string]string{"ENV_PASSWORD": "v"}),
		Settings: testSettings(),
	})
	require.Error(t, err)

	// The first descriptor completed and stays persisted; the third
	// was never reached.
	require.Len(t, result.Deployments, 2)
	assert.Equal(t, StatePersisted, result.Deployments[0].State)
	assert.Equal(t, StateFailed, result.Deployments[1].State)
	assert.Equal(t, "pwd= v\n", testutil.ReadFile(t, goodPath))
	assert.Equal(t, "pwd=c\n", testutil.ReadFile(t, unreachedPath))
}

func TestDeployValidatesOptions(t *testing.T) {
	_, err := Deploy(Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDeployEnvLoaderEndToEnd(t *testing.T) {
	dir := t.TempDir()
	configPath := testutil.CreateFile(t, dir, "app.conf", "pwd=secret123\n")

	t.Setenv("CONFSEED_DEPLOY", `{"config": "`+configPath+`", "assign": {"pwd": "ENV_PASSWORD"}}`)
	t.Setenv("ENV_PASSWORD", "bLupdLr4R2HY")

	result, err := Deploy(Options{
		Loader:   descriptor.NewEnvLoader("CONFSEED_DEPLOY"),
		Provider: provider.NewEnv(),
		Settings: testSettings(),
	})
	require.NoError(t, err)
	assert.Equal(t, StatePersisted, result.Deployments[0].State)
	assert.Equal(t, "pwd= bLupdLr4R2HY\n", testutil.ReadFile(t, configPath))
}
