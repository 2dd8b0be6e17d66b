package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

func TestAddressAlreadyOnFile(t *testing.T) {
	cfg := Config{AddressThreshold: 90}
	remote := []sky.Address{{
		ID:               "a1",
		FormattedAddress: "12 Marine Drive\nMumbai, Maharashtra, India, 400001",
		Preferred:        false,
	}}
	addr := model.Address{
		Lines:      "12 Marine Drive",
		City:       "Mumbai",
		State:      "Maharashtra",
		Country:    "India",
		PostalCode: 400001,
	}

	d := Address(addr, remote, cfg)
	require.Equal(t, StatusAlreadyPresent, d.Status)
	require.NotNil(t, d.Primary)
	assert.Equal(t, "a1", d.Primary.ID)
	assert.False(t, d.Primary.Primary)
	assert.Empty(t, d.Inserts)
}

func TestAddressInsertWhenUnmatched(t *testing.T) {
	cfg := Config{AddressThreshold: 90}
	remote := []sky.Address{{ID: "a1", FormattedAddress: "99 Elsewhere Road, London, UK"}}
	addr := model.Address{
		Lines:      "12 Marine Drive",
		City:       "Mumbai",
		State:      "Maharashtra",
		Country:    "India",
		PostalCode: 400001,
	}

	d := Address(addr, remote, cfg)
	require.Equal(t, StatusMissing, d.Status)
	require.Len(t, d.Inserts, 1)
	ins := d.Inserts[0]
	assert.Equal(t, "12 Marine Drive", ins.Fields["address_lines"])
	assert.Equal(t, "Mumbai", ins.Fields["city"])
	assert.Equal(t, "Maharashtra", ins.Fields["county"])
	assert.Equal(t, "India", ins.Fields["country"])
	assert.Equal(t, "400001", ins.Fields["postal_code"])
	assert.Equal(t, "Home", ins.Fields["type"])
	assert.Equal(t, true, ins.Fields["preferred"])
}

func TestAddressIncompleteSubmissionIsSkipped(t *testing.T) {
	cfg := Config{AddressThreshold: 90}
	addr := model.Address{Lines: "12 Marine Drive", City: "Mumbai", Country: "India"}

	d := Address(addr, nil, cfg)
	assert.Equal(t, StatusNoNewValue, d.Status)
	assert.Empty(t, d.Inserts)
}

func TestAddressStatelessCountrySkipsState(t *testing.T) {
	cfg := Config{AddressThreshold: 90, StatelessCountries: []string{"Singapore"}}
	addr := model.Address{
		Lines:      "1 Raffles Place",
		City:       "Singapore",
		Country:    "Singapore",
		PostalCode: 48616,
	}

	d := Address(addr, nil, cfg)
	require.Equal(t, StatusMissing, d.Status)
	_, hasCounty := d.Inserts[0].Fields["county"]
	assert.False(t, hasCounty)
}

func TestFormatAddress(t *testing.T) {
	addr := model.Address{
		Lines:      "12 Marine Drive",
		City:       "Mumbai",
		State:      "Maharashtra",
		Country:    "India",
		PostalCode: 400001,
	}
	got := FormatAddress(addr, nil)
	assert.Equal(t, "12 Marine Drive, Mumbai, Maharashtra, India, 400001", got)
}
