package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat", chatCmd.Use)
}

func TestChatCmd_Short(t *testing.T) {
	assert.Equal(t, "Chat with your notes", chatCmd.Short)
}

func TestChatCmd_AnswersAndExits(t *testing.T) {
	oldService := retrievalService
	mockRetr := &mockRetriever{answer: "A goroutine is a lightweight thread."}
	retrievalService = mockRetr
	defer func() {
		retrievalService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("what is a goroutine?\nexit\n"))
	rootCmd.SetArgs([]string{"chat"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "A goroutine is a lightweight thread.")
	assert.Contains(t, buf.String(), "Bye.")
	assert.Equal(t, "what is a goroutine?", mockRetr.lastQuery)
}

func TestChatCmd_AccumulatesHistory(t *testing.T) {
	oldService := retrievalService
	mockRetr := &mockRetriever{answer: "Answer."}
	retrievalService = mockRetr
	defer func() {
		retrievalService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("first question\nsecond question\nexit\n"))
	rootCmd.SetArgs([]string{"chat"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "second question", mockRetr.lastQuery)
	require.Len(t, mockRetr.lastHistory, 1)
	assert.Equal(t, "first question", mockRetr.lastHistory[0].User)
	assert.Equal(t, "Answer.", mockRetr.lastHistory[0].Assistant)
}

func TestChatCmd_SkipsEmptyLines(t *testing.T) {
	oldService := retrievalService
	mockRetr := &mockRetriever{answer: "Answer."}
	retrievalService = mockRetr
	defer func() {
		retrievalService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("\n   \nexit\n"))
	rootCmd.SetArgs([]string{"chat"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Empty(t, mockRetr.lastQuery, "blank lines should not reach the retriever")
	assert.Contains(t, buf.String(), "Bye.")
}

func TestChatCmd_QuitAlsoExits(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("QUIT\n"))
	rootCmd.SetArgs([]string{"chat"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Bye.")
}

func TestChatCmd_ContinuesAfterError(t *testing.T) {
	oldService := retrievalService
	retrievalService = &mockRetriever{err: errors.New("llm unavailable")}
	defer func() {
		retrievalService = oldService
	}()

	buf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(strings.NewReader("broken question\nexit\n"))
	rootCmd.SetArgs([]string{"chat"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, errBuf.String(), "llm unavailable")
	assert.Contains(t, buf.String(), "Bye.")
}

func TestChatCmd_ServiceNotConfigured(t *testing.T) {
	oldService := retrievalService
	retrievalService = nil
	defer func() {
		retrievalService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"chat"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval service not configured")
}
