package module

import (
	"testing"
	"time"

	"cngalcal/internal/modkit"
	modmodule "cngalcal/internal/modkit/module"
	"cngalcal/internal/platform/config"
	perr "cngalcal/internal/platform/errors"
	"cngalcal/internal/platform/logger"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig_Defaults(t *testing.T) {
	o := FromConfig(config.New().Prefix("CNGAL_TEST_DEFAULTS_"))
	assert.Equal(t, "https://api.cngal.org", o.SourceURL)
	assert.Equal(t, "https://www.cngal.org/", o.SiteURL)
	assert.Equal(t, 30*time.Second, o.SourceTimeout)
	assert.Equal(t, 3, o.SourceRetries)
	assert.Equal(t, "output", o.OutputDir)
	assert.Empty(t, o.RulesFile)
	assert.Empty(t, o.Denylist)
	assert.Equal(t, "Asia/Shanghai", o.Location.String())
	assert.Equal(t, 2, o.StrideMonths)
}

func TestFromConfig_Env(t *testing.T) {
	t.Setenv("CNGAL_OUTPUT_DIR", "/tmp/cal")
	t.Setenv("CNGAL_DENYLIST", "42, 43")
	t.Setenv("CNGAL_RESOLVE_STRIDE_MONTHS", "1")
	t.Setenv("CNGAL_OUTPUT_FORMATS", "ics,atom")
	t.Setenv("CNGAL_TZ", "UTC")

	o := FromConfig(config.New().Prefix("CNGAL_"))
	assert.Equal(t, "/tmp/cal", o.OutputDir)
	assert.Equal(t, []int{42, 43}, o.Denylist)
	assert.Equal(t, 1, o.StrideMonths)
	assert.Equal(t, []string{"ics", "atom"}, o.Formats)
	assert.Equal(t, "UTC", o.Location.String())
}

func deps(fs afero.Fs) modkit.Deps {
	return modkit.Deps{
		Log:   logger.Nop(),
		Fs:    fs,
		Clock: clockwork.NewFakeClock(),
	}
}

func TestNew(t *testing.T) {
	o := FromConfig(config.New().Prefix("CNGAL_TEST_NEW_"))
	o.Denylist = []int{42}

	m, err := New(deps(afero.NewMemMapFs()), o)
	require.NoError(t, err)
	assert.Equal(t, "releases", m.Name())

	p, ok := modmodule.PortsOf[Ports](m)
	require.True(t, ok)
	assert.Same(t, m.Service(), p.Service)
	assert.True(t, p.Service.Norm.Pack().Denied(42))
	assert.True(t, p.Service.Norm.Pack().Denied(2962), "configured indices extend the pack denylist")
	assert.Nil(t, p.Service.DB)
}

func TestNew_RulesOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	o := FromConfig(config.New().Prefix("CNGAL_TEST_RULES_"))
	o.RulesFile = "/etc/cngal/rules.yaml"

	_, err := New(deps(fs), o)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))

	require.NoError(t, afero.WriteFile(fs, o.RulesFile, []byte("version: 1\ndenylist: [7]\n"), 0o644))
	m, err := New(deps(fs), o)
	require.NoError(t, err)
	pack := m.Service().Norm.Pack()
	assert.True(t, pack.Denied(7))
	assert.False(t, pack.Denied(2962))
}

func TestNew_BadFormat(t *testing.T) {
	o := FromConfig(config.New().Prefix("CNGAL_TEST_FMT_"))
	o.Formats = []string{"pdf"}
	_, err := New(deps(afero.NewMemMapFs()), o)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}
