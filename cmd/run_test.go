package cmd

import (
	"context"
	"errors"
	"testing"

	"leetstreak/service"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogConfiguredGuilds(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	ctx := context.Background()
	repo := new(service.MockGuildConfigRepository)
	repo.On("ListGuildIDs", ctx).Return([]string{"guild-1", "guild-2"}, nil)

	logConfiguredGuilds(ctx, repo)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, 2, hook.LastEntry().Data["guildCount"])
	assert.Equal(t, []string{"guild-1", "guild-2"}, hook.LastEntry().Data["guildIDs"])
	repo.AssertExpectations(t)
}

func TestLogConfiguredGuilds_ListFails(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	ctx := context.Background()
	repo := new(service.MockGuildConfigRepository)
	repo.On("ListGuildIDs", ctx).Return(nil, errors.New("connection refused"))

	logConfiguredGuilds(ctx, repo)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	repo.AssertExpectations(t)
}
