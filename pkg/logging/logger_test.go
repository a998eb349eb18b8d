package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir points the logger at a temporary directory and resets global state
func setupTestDir(t *testing.T) {
	t.Helper()

	origLogDir := logDir
	origInitErr := initErr
	origSessionID := sessionID

	logDir = t.TempDir()
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = sync.Once{}
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}
	})
}

func TestNewLogger(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("extractor")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "extractor", logger.component)
	assert.NotEmpty(t, logger.SessionID())
	require.NotEmpty(t, logger.LogPath())

	_, statErr := os.Stat(logger.LogPath())
	assert.NoError(t, statErr)
}

func TestLoggerFormatting(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("reader")
	require.NoError(t, err)
	defer logger.Close()

	logger.Debugf("Debug message")
	logger.Infof("Info message %d", 123)
	logger.Warnf("Warning message")
	logger.Errorf("Error message")

	content, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)

	for _, pattern := range []string{
		"[reader] [DEBUG] Debug message",
		"[reader] [INFO] Info message 123",
		"[reader] [WARN] Warning message",
		"[reader] [ERROR] Error message",
	} {
		assert.Contains(t, string(content), pattern)
	}
}

func TestMultipleComponentsShareFile(t *testing.T) {
	setupTestDir(t)

	logger1, err := NewLogger("component1")
	require.NoError(t, err)
	defer logger1.Close()

	logger2, err := NewLogger("component2")
	require.NoError(t, err)
	defer logger2.Close()

	assert.Equal(t, logger1.SessionID(), logger2.SessionID())
	assert.Equal(t, logger1.LogPath(), logger2.LogPath())

	logger1.Infof("Message from component1")
	logger2.Infof("Message from component2")

	content, err := os.ReadFile(logger1.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[component1]")
	assert.Contains(t, string(content), "[component2]")
}

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("cli", &buf)
	logger.SetLevel(LevelWarn)

	logger.Debugf("hidden debug")
	logger.Infof("hidden info")
	logger.Warnf("shown warn")
	logger.Errorf("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[cli] [WARN] shown warn")
	assert.Contains(t, out, "[cli] [ERROR] shown error")
	assert.Empty(t, logger.LogPath())
}

func TestWithSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWriterLogger("parent", &buf)
	child := parent.With("child")

	child.Infof("hello")
	assert.Contains(t, buf.String(), "[child] [INFO] hello")
	assert.NoError(t, child.Close())
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Errorf("nowhere")
	assert.NoError(t, logger.Close())
}

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "quiet", want: LevelWarn},
		{input: "", want: LevelInfo},
		{input: "normal", want: LevelInfo},
		{input: "Verbose", want: LevelDebug},
		{input: "debug", want: LevelDebug},
		{input: "loud", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVerbosity(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetSessionID(t *testing.T) {
	setupTestDir(t)

	id1 := GetSessionID()
	id2 := GetSessionID()
	assert.Equal(t, id1, id2)
	assert.NotEmpty(t, id1)
}

func TestGetLogDirectory(t *testing.T) {
	setupTestDir(t)

	dir, err := GetLogDirectory()
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoggerClose(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test")
	require.NoError(t, err)

	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestLogPathFormat(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test")
	require.NoError(t, err)
	defer logger.Close()

	fileName := filepath.Base(logger.LogPath())
	require.True(t, strings.HasSuffix(fileName, "-jserrors.log"), fileName)
	assert.Contains(t, strings.TrimSuffix(fileName, "-jserrors.log"), "-")
}
