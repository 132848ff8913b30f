package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mangoose/internal/demo"
	"github.com/roach88/mangoose/internal/person"
)

func TestOutputFormatter_ReportTextPerson(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	p := person.New("John Doe", 25, "pizza", "pasta")
	p.ID = "p-01"
	require.NoError(t, formatter.Report(demo.TitleSaved, p))

	want := "Person saved:\n" +
		"{\n" +
		"  \"_id\": \"p-01\",\n" +
		"  \"name\": \"John Doe\",\n" +
		"  \"age\": 25,\n" +
		"  \"favoriteFoods\": [\n" +
		"    \"pizza\",\n" +
		"    \"pasta\"\n" +
		"  ]\n" +
		"}\n"
	assert.Equal(t, want, buf.String())
}

func TestOutputFormatter_ReportTextDeleteResult(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Report(demo.TitleDeleteResult, demo.DeleteResult{DeletedCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "Delete result:\n{\n  \"deletedCount\": 2\n}\n", buf.String())
}

func TestOutputFormatter_ReportTextNoMatch(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Report(demo.TitleAgeUpdated, (*person.Person)(nil)))
	assert.Equal(t, "Age updated:\nnull\n", buf.String())
}

func TestOutputFormatter_ReportTextEmptyList(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Report(demo.TitleNamedMary, []person.Person{}))
	assert.Equal(t, "People named Mary:\n[]\n", buf.String())
}

func TestOutputFormatter_ReportJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	ali := person.Person{ID: "p-03", Name: "Ali", FavoriteFoods: []string{"couscous", "burritos"}}
	require.NoError(t, formatter.Report(demo.TitleChained, []person.Person{ali}))
	assert.Equal(t,
		`{"status":"ok","data":{"step":"Chained query result","result":[{"_id":"p-03","name":"Ali","favoriteFoods":["couscous","burritos"]}]}}`+"\n",
		buf.String())
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Error(CodeConnect, "failed to connect", "parse uri: unsupported connection scheme: \"mongodb\"")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeConnect, resp.Error.Code)
	assert.Equal(t, "failed to connect", resp.Error.Message)
	assert.Contains(t, resp.Error.Details, "mongodb")
	assert.Nil(t, resp.Data)
}

func TestOutputFormatter_TextErrorUsesErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}

	require.NoError(t, formatter.Error(CodeConfig, "configuration error", "missing MANGOOSE_URI"))
	assert.Empty(t, out.String())
	assert.Equal(t, "Error [E001]: configuration error\nDetails: missing MANGOOSE_URI\n", errOut.String())
}

func TestOutputFormatter_TextErrorWithoutDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error(CodeUsage, `invalid format "yaml"`, nil))
	assert.Equal(t, "Error [E004]: invalid format \"yaml\"\n", buf.String())
}

func TestFail(t *testing.T) {
	cause := errors.New("step 2 (Multiple people added): UNIQUE constraint failed")

	t.Run("text", func(t *testing.T) {
		out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
		err := fail(&OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut},
			ExitFailure, CodeStep, "sequence failed", cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "Error [E003]: sequence failed")
		assert.Contains(t, errOut.String(), "UNIQUE constraint failed")
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := fail(&OutputFormatter{Format: "json", Writer: buf}, ExitFailure, CodeStep, "sequence failed", cause)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, CodeStep, resp.Error.Code)
		assert.Equal(t, cause.Error(), resp.Error.Details)
	})
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("unknown command")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "configuration error", nil)))

	wrapped := fmt.Errorf("run: %w", WrapExitError(ExitFailure, "sequence failed", errors.New("store is closed")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Equal(t, "sequence failed: store is closed", errors.Unwrap(wrapped).Error())
}
