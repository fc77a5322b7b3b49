package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch", watchCmd.Use)
}

func TestWatchCmd_Short(t *testing.T) {
	assert.Equal(t, "Watch the vault and keep the index fresh", watchCmd.Short)
}

func TestWatchCmd_StopsWhenRunReturns(t *testing.T) {
	oldService := indexService
	mockIdx := &mockIndexer{}
	indexService = mockIdx
	defer func() {
		indexService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"watch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexing vault...")
	assert.Contains(t, buf.String(), "Watching vault for changes.")
	assert.Contains(t, buf.String(), "Stopped.")
	assert.Equal(t, 1, mockIdx.indexAllCalls, "should catch up before watching")
	assert.Equal(t, 1, mockIdx.runCalls)
}

func TestWatchCmd_CancelledContextIsClean(t *testing.T) {
	oldService := indexService
	indexService = &mockIndexer{runErr: context.Canceled}
	defer func() {
		indexService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"watch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Stopped.")
}

func TestWatchCmd_RunError(t *testing.T) {
	oldService := indexService
	indexService = &mockIndexer{runErr: errors.New("watcher died")}
	defer func() {
		indexService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "watch failed")
}

func TestWatchCmd_InitialIndexError(t *testing.T) {
	oldService := indexService
	mockIdx := &mockIndexer{err: errors.New("vault unreadable")}
	indexService = mockIdx
	defer func() {
		indexService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "initial index failed")
	assert.Equal(t, 0, mockIdx.runCalls, "watch loop should not start after a failed catch-up")
}

func TestWatchCmd_CancelledDuringInitialIndexIsClean(t *testing.T) {
	oldService := indexService
	indexService = &mockIndexer{err: context.Canceled}
	defer func() {
		indexService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"watch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Stopped.")
}

func TestWatchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := indexService
	indexService = nil
	defer func() {
		indexService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "index service not configured")
}
