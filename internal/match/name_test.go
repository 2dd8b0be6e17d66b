package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alum-office/crmsync-cli/pkg/sky"
)

func TestNameUnchanged(t *testing.T) {
	remote := sky.Constituent{Name: "Priya Sharma", First: "Priya", Last: "Sharma"}
	d := Name("priya sharma", remote, Config{})
	assert.Equal(t, StatusAlreadyPresent, d.Status)
	assert.Nil(t, d.Update)
	assert.Nil(t, d.NameChange)
}

func TestNameChangePatchesAndRecordsFormerName(t *testing.T) {
	remote := sky.Constituent{Name: "Priya Sharma", First: "Priya", Last: "Sharma"}

	d := Name("Priya Mehta", remote, Config{})
	require.Equal(t, StatusMissing, d.Status)
	require.NotNil(t, d.Update)
	assert.Empty(t, d.Update.ID)
	assert.Equal(t, "Priya", d.Update.Fields["first"])
	assert.Equal(t, "Mehta", d.Update.Fields["last"])
	assert.Equal(t, "Priya Sharma", d.Update.Fields["former_name"])
	require.NotNil(t, d.NameChange)
	assert.Equal(t, "Priya Sharma", d.NameChange.Old)
	assert.Equal(t, "Priya Mehta", d.NameChange.New)
}

func TestNameMiddleNameAdded(t *testing.T) {
	remote := sky.Constituent{Name: "Priya Sharma", First: "Priya", Last: "Sharma"}

	d := Name("Priya Anand Sharma", remote, Config{})
	require.Equal(t, StatusMissing, d.Status)
	assert.Equal(t, "Anand", d.Update.Fields["middle"])
}

func TestNameEmptySubmission(t *testing.T) {
	d := Name("  ", sky.Constituent{Name: "Priya Sharma"}, Config{})
	assert.Equal(t, StatusNoNewValue, d.Status)
}
