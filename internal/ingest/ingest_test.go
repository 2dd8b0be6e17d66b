package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alum-office/crmsync-cli/internal/config"
)

func TestSubmissionsMapsByHeaderName(t *testing.T) {
	rows := [][]string{
		{"System Record ID", "ID", "Enter the source of your data?", "Email 1", "Class of"},
		{"12345", "sub-1", "alumni-form", "JD@Example.com", "2004"},
	}

	subs, err := Submissions(rows)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "sub-1", subs[0].ID)
	assert.Equal(t, "12345", subs[0].ConstituentID)
	assert.Equal(t, "alumni-form", subs[0].Source)
	assert.Equal(t, []string{"jd@example.com"}, subs[0].Emails)
	assert.Equal(t, 2004, subs[0].Education.ClassOf)
}

func TestSubmissionsSkipsRowsWithoutConstituent(t *testing.T) {
	rows := [][]string{
		{"System Record ID", "Enter the source of your data?"},
		{"", "alumni-form"},
		{"12345", "alumni-form"},
	}

	subs, err := Submissions(rows)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSubmissionsShortRows(t *testing.T) {
	rows := [][]string{
		{"System Record ID", "Enter the source of your data?", "Email 1"},
		{"12345", "alumni-form"},
	}

	subs, err := Submissions(rows)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Empty(t, subs[0].Emails)
}

func TestSubmissionsMissingRequiredColumn(t *testing.T) {
	rows := [][]string{{"ID", "Email 1"}, {"sub-1", "a@b.com"}}
	_, err := Submissions(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "System Record ID")
}

func TestSubmissionsEmpty(t *testing.T) {
	_, err := Submissions(nil)
	require.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.csv")
	data := "System Record ID,Enter the source of your data?,Phone number 1\n" +
		"12345,alumni-form,98765-43210\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	subs, err := Read(config.IngestConfig{ResponsesPath: path})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, []string{"98765-43210"}, subs[0].Phones)
}

func TestReadUnsupportedExtension(t *testing.T) {
	_, err := Read(config.IngestConfig{ResponsesPath: "responses.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
