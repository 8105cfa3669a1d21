package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_NoBuildInfo(t *testing.T) {
	info := resolve(nil, false)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestResolve_VCSStamps(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	info := resolve(bi, true)
	if Version == "dev" {
		assert.Equal(t, "v0.3.0", info.Version)
	}
	if Commit == "" {
		assert.Equal(t, "0123456789ab", info.ShortCommit())
	}
	assert.True(t, info.Modified)

	out := info.String()
	assert.Contains(t, out, "libfinder "+info.Version)
	assert.Contains(t, out, "(modified)")
	assert.Contains(t, out, runtime.Version())
}

func TestResolve_DevelModule(t *testing.T) {
	info := resolve(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
	assert.Equal(t, Version, info.Version)
	assert.Contains(t, info.String(), "commit:   unknown")
}

func TestGet_Stable(t *testing.T) {
	assert.Equal(t, Get(), Get())
}
