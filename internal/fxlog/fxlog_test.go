package fxlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/fxlog"
)

func TestNewBuildsLogger(t *testing.T) {
	logger, err := fxlog.New(false)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	defer logger.Sync()
}

func TestNopDiscardsEverything(t *testing.T) {
	logger := fxlog.Nop()
	assert.NotNil(t, logger)
	logger.Info("this should go nowhere")
}
