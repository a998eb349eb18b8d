package jserror

import (
	"bytes"
	"errors"
	"testing"

	"github.com/entrhq/jserrorcollector/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession mimics a page with or without the collector installed.
type fakeSession struct {
	installed bool
	queue     []interface{}
	err       error
	result    interface{}
	scripts   []string
}

func (f *fakeSession) push(message, source string, line interface{}) {
	f.queue = append(f.queue, map[string]interface{}{
		"errorMessage": message,
		"sourceName":   source,
		"lineNumber":   line,
	})
}

func (f *fakeSession) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	f.scripts = append(f.scripts, script)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}

	switch script {
	case PumpScript:
		if !f.installed {
			return []interface{}{}, nil
		}
		drained := f.queue
		f.queue = nil
		if drained == nil {
			drained = []interface{}{}
		}
		return drained, nil
	case ProbeScript:
		return f.installed, nil
	default:
		return nil, errors.New("unknown script")
	}
}

func TestReadErrors_CollectorAbsent(t *testing.T) {
	session := &fakeSession{installed: false}

	errs, err := ReadErrors(session)
	require.NoError(t, err)
	assert.NotNil(t, errs)
	assert.Empty(t, errs)
	assert.Equal(t, []string{PumpScript}, session.scripts)
}

func TestReadErrors_DrainsInOrder(t *testing.T) {
	session := &fakeSession{installed: true}
	session.push("TypeError: x is undefined", "http://example.com/app.js", float64(42))
	session.push("ReferenceError: y is not defined", "http://example.com/lib.js", "3")

	errs, err := ReadErrors(session)
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, "TypeError: x is undefined [http://example.com/app.js:42]", errs[0].String())
	assert.Equal(t, "ReferenceError: y is not defined [http://example.com/lib.js:3]", errs[1].String())

	again, err := ReadErrors(session)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestAsList_Nil(t *testing.T) {
	list, err := asList(nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReadErrors_MalformedEntryFailsWholeRead(t *testing.T) {
	session := &fakeSession{installed: true}
	session.push("ok", "a.js", 1)
	session.queue = append(session.queue, map[string]interface{}{
		"errorMessage": "no source",
		"lineNumber":   2,
	})

	errs, err := ReadErrors(session)
	require.Error(t, err)
	assert.Nil(t, errs)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Index)
	assert.Equal(t, KeySource, parseErr.Field)
	assert.ErrorIs(t, err, ErrMissingField)

	// The next read is unaffected.
	session.push("later", "b.js", 5)
	errs, err = ReadErrors(session)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "later [b.js:5]", errs[0].String())
}

func TestReadErrors_EntryNotAnObject(t *testing.T) {
	session := &fakeSession{installed: true, result: []interface{}{"boom"}}

	_, err := ReadErrors(session)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestReadErrors_UnexpectedResult(t *testing.T) {
	session := &fakeSession{installed: true, result: "not a list"}

	_, err := ReadErrors(session)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedResult)
}

func TestReadErrors_AcceptsTypedMapSlice(t *testing.T) {
	session := &fakeSession{installed: true, result: []map[string]interface{}{
		{"errorMessage": "Err", "sourceName": "a.js", "lineNumber": 7},
	}}

	errs, err := ReadErrors(session)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, New("Err", "a.js", 7), errs[0])
}

func TestReadErrors_ScriptFailurePassesThrough(t *testing.T) {
	sessionErr := errors.New("session not created")
	session := &fakeSession{err: sessionErr}

	_, err := ReadErrors(session)
	require.Error(t, err)

	var scriptErr *ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Same(t, sessionErr, errors.Unwrap(err))
	assert.ErrorIs(t, err, sessionErr)
	assert.Equal(t, PumpScript, scriptErr.Script)
}

func TestReader_Filter(t *testing.T) {
	filter, err := NewFilter([]string{"*://ads.example.com/*"}, []string{"Script error*"})
	require.NoError(t, err)

	session := &fakeSession{installed: true}
	session.push("TypeError: boom", "https://ads.example.com/track.js", 1)
	session.push("Script error.", "", 0)
	session.push("TypeError: kept", "https://example.com/app.js", 9)

	var buf bytes.Buffer
	reader := NewReader(session, WithFilter(filter), WithLogger(logging.NewWriterLogger("reader", &buf)))

	errs, err := reader.Read()
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "TypeError: kept", errs[0].Message())
	assert.Contains(t, buf.String(), "drained 3 error(s), 2 ignored")
}

func TestReader_Installed(t *testing.T) {
	present, err := NewReader(&fakeSession{installed: true}).Installed()
	require.NoError(t, err)
	assert.True(t, present)

	present, err = NewReader(&fakeSession{installed: false}).Installed()
	require.NoError(t, err)
	assert.False(t, present)

	_, err = NewReader(&fakeSession{result: "yes"}).Installed()
	assert.ErrorIs(t, err, ErrUnexpectedResult)

	_, err = NewReader(&fakeSession{err: errors.New("gone")}).Installed()
	var scriptErr *ScriptError
	assert.ErrorAs(t, err, &scriptErr)
}
