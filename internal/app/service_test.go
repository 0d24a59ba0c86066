package app

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAliasesThenResolveFromRedis(t *testing.T) {
	server := miniredis.RunT(t)
	service := NewService(nil)
	source := AliasSource{File: fixturePath(t, "aliases.yaml"), RedisAddr: server.Addr(), RedisKey: "aliases:test"}

	published, err := service.PublishAliases(t.Context(), source)
	require.NoError(t, err)
	assert.Equal(t, 3, published)
	assert.Equal(t, "app libs", server.HGet("aliases:test", "all"))

	result, err := service.Resolve(t.Context(), ResolveRequest{
		ProjectRoot: fixturePath(t, "sample-repo"),
		Patterns:    []string{"all"},
		Aliases:     AliasSource{RedisAddr: server.Addr(), RedisKey: "aliases:test"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"//app:app", "//libs/core:core", "//libs/net:net"}, result.Results["all"].Strings())
}

func TestPublishAliasesRequiresRedis(t *testing.T) {
	_, err := NewService(nil).PublishAliases(t.Context(), AliasSource{File: fixturePath(t, "aliases.yaml")})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
