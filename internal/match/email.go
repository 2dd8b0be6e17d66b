package match

import (
	"strings"

	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

// Emails classifies the candidate e-mail addresses against the remote set.
// Comparison is an exact, case-insensitive set difference. When every
// candidate is already on file, the first candidate (Email slot 1) becomes
// the primary candidate.
func Emails(candidates []string, remote []sky.EmailAddress, cfg Config) Decision {
	if len(candidates) == 0 {
		return noNewValue(CategoryEmail)
	}

	remoteByAddr := make(map[string]sky.EmailAddress, len(remote))
	for _, r := range remote {
		remoteByAddr[strings.ToLower(r.Address)] = r
	}

	var cleaned, missing []string
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		lc := strings.ToLower(strings.TrimSpace(c))
		if lc == "" || seen[lc] {
			continue
		}
		seen[lc] = true
		cleaned = append(cleaned, lc)
		if _, ok := remoteByAddr[lc]; !ok {
			missing = append(missing, lc)
		}
	}
	if len(cleaned) == 0 {
		return noNewValue(CategoryEmail)
	}

	if len(missing) == 0 {
		first := cleaned[0]
		r := remoteByAddr[first]
		return Decision{
			Status:   StatusAlreadyPresent,
			Category: CategoryEmail,
			Primary:  &model.RemoteValue{ID: r.ID, Value: first, Primary: r.Primary},
		}
	}

	d := Decision{Status: StatusMissing, Category: CategoryEmail}
	for i, email := range missing {
		d.Inserts = append(d.Inserts, Insert{
			Fields: map[string]any{
				"address": email,
				"type":    emailType(email, cfg.SchoolEmailDomains),
			},
			TagValue: email,
			Primary:  i == 0,
		})
	}
	return d
}

// emailType classifies institutional addresses so the CRM distinguishes
// school-issued e-mail from personal e-mail.
func emailType(email string, schoolDomains []string) string {
	for _, domain := range schoolDomains {
		if strings.Contains(email, strings.ToLower(domain)) {
			return "IITB Email"
		}
	}
	return "Email"
}
