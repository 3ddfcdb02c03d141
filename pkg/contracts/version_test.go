package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, ProductName, info.Product)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.Equal(t, IsPrerelease(), info.Prerelease)
}

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "YSI Analyzer v"+Version, GetVersionString())

	full := GetFullVersionString()
	assert.Contains(t, full, GetVersionString())
	assert.Contains(t, full, "api "+APIVersion)
	assert.Contains(t, full, "commit "+GitCommit)
}
