package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	Assert := assert.New(t)

	Assert.Equal("1.2.3", Parse("1.2.3", "").String())
	Assert.Equal("1.2.0", Parse("v1.2", "").String())
	Assert.Equal("2.0.1+abc1234", Parse("2.0.1-rc1", "abc1234").String())
	Assert.Equal("0.0.0", Parse("dev", "").String())
	Assert.Equal(&Version{Major: 4, Minor: 5, Micro: 6}, Parse(" 4.5.6 ", ""))
}

func TestGetVersion(t *testing.T) {
	release, c := Release, Commit
	defer func() { Release, Commit = release, c }()

	Release, Commit = "1.4.0", "0123456789abcdef"
	assert.Equal(t, "1.4.0+0123456", GetVersion().String())
}
