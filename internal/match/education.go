package match

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/internal/vocab"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

// Education reconciles the submitted degree record against the remote
// education rows for the configured school. Incomplete submissions are
// skipped. With no remote row a full record is inserted. With exactly
// one remote row the graduation years decide: an equal or out-of-range
// remote year means the rows describe the same degree and only blank
// remote fields are filled in; a different in-range year is a genuine
// disagreement and is escalated without writing. More than one remote
// row is always escalated.
func Education(edu model.Education, remote []sky.Education, degrees *vocab.Degrees, cfg Config) Decision {
	if edu.ClassOf == 0 || edu.Degree == "" || edu.Department == "" || edu.Hostel == "" {
		return noNewValue(CategoryEducation)
	}

	var school []sky.Education
	for _, r := range remote {
		if strings.EqualFold(r.School, cfg.SchoolName) {
			school = append(school, r)
		}
	}

	switch len(school) {
	case 0:
		return educationInsert(edu, degrees, cfg)
	case 1:
		return educationPatch(edu, school[0], degrees, cfg)
	default:
		return educationConflict("multiple education records on file", school, edu)
	}
}

func educationInsert(edu model.Education, degrees *vocab.Degrees, cfg Config) Decision {
	fields := map[string]any{
		"school":              cfg.SchoolName,
		"class_of":            strconv.Itoa(edu.ClassOf),
		"date_graduated":      model.FuzzyDate{Year: edu.ClassOf},
		"date_left":           model.FuzzyDate{Year: edu.ClassOf},
		"majors":              []string{edu.Department},
		"social_organization": edu.Hostel,
		"status":              "Graduated",
		"primary":             true,
	}
	d := Decision{Status: StatusMissing, Category: CategoryEducation}
	if degree, err := lookupDegree(degrees, edu.Degree, &d); err == nil {
		fields["degree"] = degree
	}
	d.Inserts = []Insert{{
		Fields:   fields,
		TagValue: Truncate(fmt.Sprintf("%d | %s | %s", edu.ClassOf, edu.Degree, edu.Department), 50),
	}}
	return d
}

func educationPatch(edu model.Education, remote sky.Education, degrees *vocab.Degrees, cfg Config) Decision {
	remoteYear, _ := strconv.Atoi(remote.ClassOf)
	inRange := remoteYear >= cfg.EducationMinYear && remoteYear <= cfg.now().Year()

	if inRange && remoteYear != edu.ClassOf {
		return educationConflict("graduation year disagrees with record on file", []sky.Education{remote}, edu)
	}

	fields := map[string]any{}
	if !inRange {
		fields["class_of"] = strconv.Itoa(edu.ClassOf)
		fields["date_graduated"] = model.FuzzyDate{Year: edu.ClassOf}
		fields["date_left"] = model.FuzzyDate{Year: edu.ClassOf}
	}
	d := Decision{Status: StatusAlreadyPresent, Category: CategoryEducation}
	if blankRemote(remote.Degree) {
		if degree, err := lookupDegree(degrees, edu.Degree, &d); err == nil {
			fields["degree"] = degree
		}
	}
	if len(remote.Majors) == 0 {
		fields["majors"] = []string{edu.Department}
	}
	if blankRemote(remote.SocialOrganization) {
		fields["social_organization"] = edu.Hostel
	}
	if len(fields) == 0 {
		return d
	}
	d.Update = &Update{
		ID:       remote.ID,
		Fields:   fields,
		TagValue: Truncate(fmt.Sprintf("%d | %s | %s", edu.ClassOf, edu.Degree, edu.Department), 50),
	}
	return d
}

func educationConflict(reason string, remote []sky.Education, edu model.Education) Decision {
	return Decision{
		Status:   StatusEscalate,
		Category: CategoryEducation,
		Conflict: &Conflict{Reason: reason, Remote: remote, Submitted: edu},
	}
}

func lookupDegree(degrees *vocab.Degrees, form string, d *Decision) (string, error) {
	degree, err := degrees.Lookup(form)
	if err != nil {
		if eris.Is(err, vocab.ErrUnmapped) {
			d.Warnings = append(d.Warnings, fmt.Sprintf("degree %q has no CRM mapping", form))
		}
		return "", err
	}
	return degree, nil
}

// blankRemote reports whether a remote text field counts as unset. The
// CRM writes "Other" for values its pick lists could not place.
func blankRemote(v string) bool {
	return v == "" || strings.EqualFold(v, "Other")
}
