package match

import (
	"strings"

	"github.com/amonsat/fullname_parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alum-office/crmsync-cli/internal/normalize"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

var titleCaser = cases.Title(language.English)

// Name compares the submitted full name against the constituent record.
// The submitted string is split into components and title-cased; any
// component that differs produces a patch of the constituent itself,
// with the previous name preserved as the former name. The title is
// only compared when the submission supplied one.
func Name(fullName string, remote sky.Constituent, cfg Config) Decision {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return noNewValue(CategoryName)
	}

	parsed := fullname_parser.ParseFullname(fullName)
	title := titleCaser.String(parsed.Title)
	first := titleCaser.String(parsed.First)
	middle := titleCaser.String(parsed.Middle)
	last := titleCaser.String(parsed.Last)

	changed := first != remote.First || middle != remote.Middle || last != remote.Last
	if title != "" && title != remote.Title {
		changed = true
	}
	if !changed {
		return Decision{Status: StatusAlreadyPresent, Category: CategoryName}
	}

	fields := map[string]any{
		"first":       Truncate(first, 50),
		"middle":      Truncate(middle, 50),
		"last":        Truncate(last, 50),
		"former_name": Truncate(normalize.CollapseSpace(remote.Name), 100),
	}
	if title != "" {
		fields["title"] = title
	}
	newName := strings.Join(nonEmpty(title, first, middle, last), " ")
	return Decision{
		Status:   StatusMissing,
		Category: CategoryName,
		Update: &Update{
			Fields:   fields,
			TagValue: Truncate(newName, 50),
		},
		NameChange: &NameChange{Old: remote.Name, New: newName},
	}
}

func nonEmpty(parts ...string) []string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return kept
}
