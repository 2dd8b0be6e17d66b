// Package plan turns matcher decisions into the ordered CRM writes that
// realize them, each write paired with the audit tags that record its
// provenance.
package plan

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alum-office/crmsync-cli/internal/match"
	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

// Tag categories used for audit custom fields.
const (
	TagSyncSource     = "Sync source"
	TagVerifiedEmail  = "Verified Email"
	TagVerifiedPhone  = "Verified Phone"
	TagEventsAttended = "Events Attended"
)

// Op is one CRM write. Ops for a record execute in slice order and stop
// at the first failure, so a tag placed after its write is only posted
// once the write succeeded.
type Op struct {
	Method  string
	Path    string
	Payload map[string]any
}

// Planner renders decisions into write operations for one submission
// source. Verified reports whether the source is trusted enough to set
// primary flags and verified tags on contact methods.
type Planner struct {
	ConstituentID string
	Source        string
	Verified      bool

	// Now stamps audit tags; nil means time.Now.
	Now func() time.Time
}

func (p Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Build renders one decision into its ordered write operations. A
// decision with nothing to write yields no ops.
func (p Planner) Build(d match.Decision) []Op {
	switch d.Category {
	case match.CategoryEmail:
		return p.contactOps(d, sky.EmailAddressesPath, sky.EmailAddressPath, TagVerifiedEmail)
	case match.CategoryPhone:
		return p.contactOps(d, sky.PhonesPath, sky.PhonePath, TagVerifiedPhone)
	case match.CategoryEmployment:
		return p.recordOps(d, sky.RelationshipsPath, sky.RelationshipPath)
	case match.CategoryAddress:
		return p.addressOps(d)
	case match.CategoryEducation:
		return p.recordOps(d, sky.EducationsPath, sky.EducationPath)
	case match.CategoryName:
		return p.nameOps(d)
	case match.CategoryOnlinePresence:
		return p.presenceOps(d)
	default:
		return nil
	}
}

// contactOps handles e-mail and phone, the two categories subject to the
// verified-source gate. An unverified source may add values but never
// promotes them to primary and never vouches for them with a verified tag.
func (p Planner) contactOps(d match.Decision, listPath string, itemPath func(string) string, verifiedCategory string) []Op {
	var ops []Op
	switch d.Status {
	case match.StatusAlreadyPresent:
		if d.Primary == nil || !p.Verified {
			return nil
		}
		if !d.Primary.Primary {
			ops = append(ops, Op{
				Method:  "PATCH",
				Path:    itemPath(d.Primary.ID),
				Payload: map[string]any{"primary": true},
			})
		}
		ops = append(ops, p.tagOp(model.ProvenanceTag{
			Category: verifiedCategory,
			Value:    match.Truncate(d.Primary.Value, 50),
			Comment:  p.provenance(d.Category),
		}))
	case match.StatusMissing:
		for _, ins := range d.Inserts {
			payload := p.insertPayload(ins.Fields)
			if ins.Primary && p.Verified {
				payload["primary"] = true
			}
			ops = append(ops, Op{Method: "POST", Path: listPath, Payload: payload})
			ops = append(ops, p.syncSourceTag(d.Category, ins.TagValue))
			if p.Verified {
				ops = append(ops, p.tagOp(model.ProvenanceTag{
					Category: verifiedCategory,
					Value:    match.Truncate(ins.TagValue, 50),
					Comment:  p.provenance(d.Category),
				}))
			}
		}
	}
	return ops
}

// recordOps handles relationship and education writes, which carry no
// verified gate. Updates tag only when the matcher set a tag value.
func (p Planner) recordOps(d match.Decision, listPath string, itemPath func(string) string) []Op {
	var ops []Op
	for _, ins := range d.Inserts {
		ops = append(ops, Op{Method: "POST", Path: listPath, Payload: p.insertPayload(ins.Fields)})
		if ins.TagValue != "" {
			ops = append(ops, p.syncSourceTag(d.Category, ins.TagValue))
		}
	}
	if d.Update != nil {
		ops = append(ops, Op{
			Method:  "PATCH",
			Path:    itemPath(d.Update.ID),
			Payload: Scrub(d.Update.Fields),
		})
		if d.Update.TagValue != "" {
			ops = append(ops, p.syncSourceTag(d.Category, d.Update.TagValue))
		}
	}
	return ops
}

// addressOps inserts like any record but also repairs the preferred flag
// on a matched address regardless of source verification.
func (p Planner) addressOps(d match.Decision) []Op {
	if d.Status == match.StatusAlreadyPresent {
		if d.Primary == nil || d.Primary.Primary {
			return nil
		}
		return []Op{{
			Method:  "PATCH",
			Path:    sky.AddressPath(d.Primary.ID),
			Payload: map[string]any{"preferred": true},
		}}
	}
	return p.recordOps(d, sky.AddressesPath, sky.AddressPath)
}

func (p Planner) nameOps(d match.Decision) []Op {
	if d.Update == nil {
		return nil
	}
	ops := []Op{{
		Method:  "PATCH",
		Path:    sky.ConstituentPath(p.ConstituentID),
		Payload: Scrub(d.Update.Fields),
	}}
	if d.Update.TagValue != "" {
		ops = append(ops, p.syncSourceTag(d.Category, d.Update.TagValue))
	}
	return ops
}

func (p Planner) presenceOps(d match.Decision) []Op {
	var ops []Op
	for _, ins := range d.Inserts {
		payload := p.insertPayload(ins.Fields)
		if ins.Primary {
			payload["primary"] = true
		}
		ops = append(ops, Op{Method: "POST", Path: sky.OnlinePresencesPath, Payload: payload})
		ops = append(ops, p.syncSourceTag(d.Category, ins.TagValue))
	}
	return ops
}

func (p Planner) insertPayload(fields map[string]any) map[string]any {
	payload := Scrub(fields)
	payload["constituent_id"] = p.ConstituentID
	return payload
}

// syncSourceTag records where a written value came from: the provenance
// string as the value and the written value itself as the comment.
func (p Planner) syncSourceTag(cat match.Category, written string) Op {
	return p.tagOp(model.ProvenanceTag{
		Category: TagSyncSource,
		Value:    p.provenance(cat),
		Comment:  written,
	})
}

// TagOp renders a standalone audit tag write, used by callers that tag
// without an accompanying value write.
func (p Planner) TagOp(tag model.ProvenanceTag) Op {
	return p.tagOp(tag)
}

// EventOp records event attendance as a custom field, dated to the
// event when the submission carries a date.
func (p Planner) EventOp(eventDate *time.Time) Op {
	when := p.now()
	if eventDate != nil {
		when = *eventDate
	}
	return Op{
		Method: "POST",
		Path:   sky.CustomFieldsPath,
		Payload: map[string]any{
			"parent_id": p.ConstituentID,
			"category":  TagEventsAttended,
			"value":     Provenance(p.Source, "Event"),
			"date": model.FuzzyDate{
				Day:   when.Day(),
				Month: int(when.Month()),
				Year:  when.Year(),
			},
		},
	}
}

func (p Planner) tagOp(tag model.ProvenanceTag) Op {
	now := p.now()
	return Op{
		Method: "POST",
		Path:   sky.CustomFieldsPath,
		Payload: map[string]any{
			"parent_id": p.ConstituentID,
			"category":  tag.Category,
			"value":     tag.Value,
			"comment":   tag.Comment,
			"date": model.FuzzyDate{
				Day:   now.Day(),
				Month: int(now.Month()),
				Year:  now.Year(),
			},
		},
	}
}

func (p Planner) provenance(cat match.Category) string {
	return Provenance(p.Source, string(cat))
}

var sourceCaser = cases.Title(language.English)

// Provenance renders the audit string identifying an automated write:
// the title-cased source with dashes folded to underscores, an Auto
// marker, and the attribute label, clipped to the CRM's 50-character
// custom field value limit.
func Provenance(source, label string) string {
	s := strings.ReplaceAll(sourceCaser.String(source), "-", "_")
	return match.Truncate(s+" - Auto | "+label, 50)
}
