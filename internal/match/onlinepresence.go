package match

import (
	"strings"

	"github.com/alum-office/crmsync-cli/pkg/sky"
)

// CleanURL canonicalizes a social profile link: tracking queries, the
// scheme, a www. prefix, regional LinkedIn hosts, and any trailing slash
// are all removed so the same profile always yields the same address.
func CleanURL(raw string) string {
	u := strings.TrimSpace(raw)
	if i := strings.Index(u, "?"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	u = strings.Replace(u, "in.linkedin", "linkedin", 1)
	return strings.TrimSuffix(u, "/")
}

// OnlinePresence turns a submitted LinkedIn link into an insert. Links
// are written as the primary presence unless the same canonical address
// is already on file; anything that is not a LinkedIn address is
// ignored. There is no patch path for this category.
func OnlinePresence(link string, remote []sky.OnlinePresence, cfg Config) Decision {
	if !strings.Contains(strings.ToLower(link), "linkedin") {
		return noNewValue(CategoryOnlinePresence)
	}
	address := CleanURL(link)
	for _, p := range remote {
		if strings.EqualFold(CleanURL(p.Address), address) {
			return Decision{
				Status:   StatusAlreadyPresent,
				Category: CategoryOnlinePresence,
			}
		}
	}
	return Decision{
		Status:   StatusMissing,
		Category: CategoryOnlinePresence,
		Inserts: []Insert{{
			Fields: map[string]any{
				"address": address,
				"type":    "LinkedIn",
			},
			TagValue: Truncate(address, 50),
			Primary:  true,
		}},
	}
}
