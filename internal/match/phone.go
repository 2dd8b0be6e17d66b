package match

import (
	"regexp"

	"github.com/alum-office/crmsync-cli/internal/fuzzy"
	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

var nonDigit = regexp.MustCompile(`[^0-9]`)

// Digits strips every non-digit character from a phone number.
func Digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// Phones classifies the candidate phone numbers against the remote set.
// Numbers are compared digits-only through the fuzzy ratio: a candidate
// whose best remote score is strictly above the threshold is already
// present, at or below it is missing. Missing candidates are de-duplicated
// against each other at the same threshold.
func Phones(candidates []string, remote []sky.Phone, cfg Config) Decision {
	var cleaned []string
	for _, c := range candidates {
		if d := Digits(c); d != "" {
			cleaned = append(cleaned, d)
		}
	}
	if len(cleaned) == 0 {
		return noNewValue(CategoryPhone)
	}

	remoteDigits := make([]string, 0, len(remote))
	for _, r := range remote {
		if d := Digits(r.Number); d != "" {
			remoteDigits = append(remoteDigits, d)
		}
	}

	var missing []string
	for _, c := range cleaned {
		_, score, ok := fuzzy.ExtractOne(c, remoteDigits)
		if !ok || score <= cfg.PhoneThreshold {
			missing = append(missing, c)
		}
	}
	missing = fuzzy.Dedupe(missing, cfg.PhoneThreshold)

	if len(missing) == 0 {
		return Decision{
			Status:   StatusAlreadyPresent,
			Category: CategoryPhone,
			Primary:  bestRemotePhone(cleaned[0], remote),
		}
	}

	d := Decision{Status: StatusMissing, Category: CategoryPhone}
	for i, number := range missing {
		d.Inserts = append(d.Inserts, Insert{
			Fields: map[string]any{
				"number": number,
				"type":   "Mobile",
			},
			TagValue: number,
			Primary:  i == 0,
		})
	}
	return d
}

// bestRemotePhone picks the remote record whose digits score highest
// against the first candidate. The returned value carries the digits
// form so tags record the number the way matching saw it.
func bestRemotePhone(candidateDigits string, remote []sky.Phone) *model.RemoteValue {
	bestScore := -1
	var best *model.RemoteValue
	for _, r := range remote {
		d := Digits(r.Number)
		if d == "" {
			continue
		}
		if score := fuzzy.Ratio(candidateDigits, d); score > bestScore {
			bestScore = score
			best = &model.RemoteValue{ID: r.ID, Value: d, Primary: r.Primary}
		}
	}
	return best
}
