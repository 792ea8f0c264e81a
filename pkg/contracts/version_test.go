package contracts

import (
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionParts(t *testing.T) {
	want := fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
	if IsPrerelease() {
		want += "-" + VersionPrerelease
	}
	assert.Equal(t, want, Version)
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, ExportFormatVersion, info.ExportFormat)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.False(t, info.Prerelease)
}

func TestGetFullVersionString(t *testing.T) {
	s := GetFullVersionString()
	assert.True(t, strings.HasPrefix(s, "HR Pulse v"+Version+" ("))
	assert.Contains(t, s, runtime.GOOS+"/"+runtime.GOARCH)
}
