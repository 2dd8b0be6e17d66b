package match

import (
	"strconv"
	"strings"

	"github.com/alum-office/crmsync-cli/internal/fuzzy"
	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/internal/normalize"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

// Address reconciles the submitted postal address against the remote set.
// Comparison runs on a single formatted line so the fuzzy ratio sees the
// same shape the CRM renders. A best score strictly above the threshold
// means the address is already on file and only its preferred flag may
// need touching; at or below it a full insert is planned, but only when
// every component the destination requires was actually submitted.
func Address(addr model.Address, remote []sky.Address, cfg Config) Decision {
	formatted := FormatAddress(addr, cfg.StatelessCountries)
	if formatted == "" {
		return noNewValue(CategoryAddress)
	}

	remoteFormatted := make([]string, 0, len(remote))
	for _, r := range remote {
		remoteFormatted = append(remoteFormatted, normalize.CollapseSpace(r.FormattedAddress))
	}
	idx, score, ok := fuzzy.ExtractOne(formatted, remoteFormatted)

	if ok && score > cfg.AddressThreshold {
		match := remote[idx]
		return Decision{
			Status:   StatusAlreadyPresent,
			Category: CategoryAddress,
			Primary: &model.RemoteValue{
				ID:      match.ID,
				Value:   normalize.CollapseSpace(match.FormattedAddress),
				Primary: match.Preferred,
			},
		}
	}

	if !addressComplete(addr, cfg.StatelessCountries) {
		return noNewValue(CategoryAddress)
	}

	fields := map[string]any{
		"address_lines": addr.Lines,
		"city":          addr.City,
		"country":       addr.Country,
		"postal_code":   strconv.Itoa(addr.PostalCode),
		"type":          "Home",
		"preferred":     true,
	}
	if !stateless(addr.Country, cfg.StatelessCountries) {
		fields["county"] = addr.State
	}
	return Decision{
		Status:   StatusMissing,
		Category: CategoryAddress,
		Inserts: []Insert{{
			Fields:   fields,
			TagValue: Truncate(formatted, 50),
		}},
	}
}

// FormatAddress renders the submitted address as one comma-joined line,
// omitting empty components and the state for countries that have none.
func FormatAddress(addr model.Address, statelessCountries []string) string {
	parts := []string{addr.Lines, addr.City}
	if !stateless(addr.Country, statelessCountries) {
		parts = append(parts, addr.State)
	}
	parts = append(parts, addr.Country)
	if addr.PostalCode != 0 {
		parts = append(parts, strconv.Itoa(addr.PostalCode))
	}
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return normalize.CollapseSpace(strings.Join(kept, ", "))
}

func addressComplete(addr model.Address, statelessCountries []string) bool {
	if addr.Lines == "" || addr.City == "" || addr.Country == "" || addr.PostalCode == 0 {
		return false
	}
	if !stateless(addr.Country, statelessCountries) && addr.State == "" {
		return false
	}
	return true
}

func stateless(country string, statelessCountries []string) bool {
	for _, c := range statelessCountries {
		if strings.EqualFold(country, c) {
			return true
		}
	}
	return false
}
