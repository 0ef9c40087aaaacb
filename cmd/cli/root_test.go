package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfig_ReadsUnprefixedToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_from_env")
	t.Setenv("CW_GITHUB_TOKEN", "ghp_legacy")

	initConfig()
	assert.Equal(t, "ghp_from_env", viper.GetString("GITHUB_TOKEN"))
}
