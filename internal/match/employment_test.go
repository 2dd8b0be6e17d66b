package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

func TestEmploymentMatchesExistingRelationship(t *testing.T) {
	cfg := Config{RelationshipThreshold: 90}
	remote := []sky.Relationship{
		{ID: "r1", Name: "Tata Consultancy Services", Position: "Engineer"},
		{ID: "r2", Name: "Some Other Employer"},
	}
	emp := model.Employment{Organization: "Tata Consultancy Service", Position: "Senior Engineer"}

	d := Employment(emp, remote, cfg)
	require.Equal(t, StatusAlreadyPresent, d.Status)
	require.NotNil(t, d.Update)
	assert.Equal(t, "r1", d.Update.ID)
	assert.Equal(t, true, d.Update.Fields["is_primary_business"])
	assert.Equal(t, "Senior Engineer", d.Update.Fields["position"])
	assert.Empty(t, d.Update.TagValue)
}

func TestEmploymentNoOpPatchIsSuppressed(t *testing.T) {
	cfg := Config{RelationshipThreshold: 90}
	remote := []sky.Relationship{
		{ID: "r1", Name: "Tata Consultancy Services", Position: "Engineer", IsPrimaryBusiness: true},
	}
	emp := model.Employment{Organization: "Tata Consultancy Services", Position: "engineer"}

	d := Employment(emp, remote, cfg)
	assert.Equal(t, StatusNoNewValue, d.Status)
	assert.Nil(t, d.Update)
}

func TestEmploymentInsertsNewEmployer(t *testing.T) {
	cfg := Config{RelationshipThreshold: 90}
	remote := []sky.Relationship{{ID: "r1", Name: "Some Other Employer"}}
	emp := model.Employment{
		Organization: "Acme Widgets",
		Position:     "Director",
		Start:        model.FuzzyDate{Month: 6, Year: 2019},
	}

	d := Employment(emp, remote, cfg)
	require.Equal(t, StatusMissing, d.Status)
	require.Len(t, d.Inserts, 1)
	ins := d.Inserts[0]
	relation := ins.Fields["relation"].(map[string]any)
	assert.Equal(t, "Acme Widgets", relation["name"])
	assert.Equal(t, "Organization", relation["type"])
	assert.Equal(t, "Employer", ins.Fields["type"])
	assert.Equal(t, "Employee", ins.Fields["reciprocal_type"])
	assert.Equal(t, true, ins.Fields["is_primary_business"])
	assert.Equal(t, model.FuzzyDate{Month: 6, Year: 2019}, ins.Fields["start"])
	assert.Equal(t, "Acme Widgets", ins.TagValue)
}

func TestEmploymentAcademicEmployerType(t *testing.T) {
	cfg := Config{RelationshipThreshold: 90}
	d := Employment(model.Employment{Organization: "Stanford University"}, nil, cfg)
	require.Equal(t, StatusMissing, d.Status)
	assert.Equal(t, "University", d.Inserts[0].Fields["type"])
}

func TestEmploymentEmptyOrganization(t *testing.T) {
	d := Employment(model.Employment{Position: "Director"}, nil, Config{RelationshipThreshold: 90})
	assert.Equal(t, StatusNoNewValue, d.Status)
}
