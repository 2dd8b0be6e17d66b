package match

import (
	"strings"

	"github.com/alum-office/crmsync-cli/internal/fuzzy"
	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

var academicKeywords = []string{"school", "college", "university", "institute", "iit", "iim"}

// Employment reconciles the submitted employer against the constituent's
// organization relationships. A remote relationship scoring strictly above
// the threshold is treated as the same employer and patched in place;
// otherwise a new relationship is inserted. A patch that would change
// nothing is reported as no new value so no write or tag is produced.
func Employment(emp model.Employment, remote []sky.Relationship, cfg Config) Decision {
	if emp.Organization == "" {
		return noNewValue(CategoryEmployment)
	}

	names := make([]string, 0, len(remote))
	for _, r := range remote {
		names = append(names, r.Name)
	}
	idx, score, ok := fuzzy.ExtractOne(emp.Organization, names)

	if ok && score > cfg.RelationshipThreshold {
		match := remote[idx]
		fields := map[string]any{"is_primary_business": true}
		if emp.Position != "" && !strings.EqualFold(emp.Position, match.Position) {
			fields["position"] = Truncate(emp.Position, 50)
		}
		if !emp.Start.IsZero() {
			fields["start"] = emp.Start
		}
		if !emp.End.IsZero() {
			fields["end"] = emp.End
		}
		if len(fields) == 1 && match.IsPrimaryBusiness {
			return noNewValue(CategoryEmployment)
		}
		return Decision{
			Status:   StatusAlreadyPresent,
			Category: CategoryEmployment,
			Update:   &Update{ID: match.ID, Fields: fields},
		}
	}

	fields := map[string]any{
		"relation": map[string]any{
			"name": Truncate(emp.Organization, 60),
			"type": "Organization",
		},
		"type":                relationType(emp.Organization),
		"reciprocal_type":     "Employee",
		"is_primary_business": true,
	}
	if emp.Position != "" {
		fields["position"] = Truncate(emp.Position, 50)
	}
	if !emp.Start.IsZero() {
		fields["start"] = emp.Start
	}
	if !emp.End.IsZero() {
		fields["end"] = emp.End
	}
	return Decision{
		Status:   StatusMissing,
		Category: CategoryEmployment,
		Inserts: []Insert{{
			Fields:   fields,
			TagValue: Truncate(emp.Organization, 50),
		}},
	}
}

func relationType(org string) string {
	lower := strings.ToLower(org)
	for _, kw := range academicKeywords {
		if strings.Contains(lower, kw) {
			return "University"
		}
	}
	return "Employer"
}
