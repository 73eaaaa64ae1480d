package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	t.Parallel()

	accepted := []string{
		"+25078123456",
		"0781234567",
		"+250 78 123 456",
		"078 123 4567",
	}
	for _, phone := range accepted {
		assert.True(t, ValidPhone(phone), "expected accept: %q", phone)
	}

	rejected := []string{
		"12345",
		"+1234567890",
		"+2507812345",   // seven digits after prefix
		"+250781234567", // nine digits after prefix
		"07812345678",
		"0881234567", // 08 is not a trunk prefix here
		"",
		"+250abcdefgh",
	}
	for _, phone := range rejected {
		assert.False(t, ValidPhone(phone), "expected reject: %q", phone)
	}
}

func TestValidEmailWithoutPartner(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidEmail("a@other.com", ""))
	assert.True(t, ValidEmail("first.last@ktrn.rw", ""))
	assert.False(t, ValidEmail("not-an-email", ""))
	assert.False(t, ValidEmail("a@nodot", ""))
	assert.False(t, ValidEmail("a b@x.com", ""))
	assert.False(t, ValidEmail("", ""))
}

func TestValidEmailPartnerAllowList(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidEmail("a@mtn.com", "MTN"))
	assert.True(t, ValidEmail("a@gmail.com", "MTN"))
	assert.False(t, ValidEmail("a@other.com", "MTN"))
	assert.True(t, ValidEmail("a@MTN.com", "MTN"), "domain comparison is case-insensitive")

	assert.True(t, ValidEmail("eng@liquidtelecom.com", "Liquid Telecom"))
	assert.False(t, ValidEmail("eng@gmail.com", "Liquid Telecom"))

	assert.False(t, ValidEmail("a@mtn.com", "Unknown Partner"))
}

func TestPartners(t *testing.T) {
	t.Parallel()

	partners := Partners()
	assert.Equal(t, []string{"Airtel", "KTRN", "Liquid Telecom", "MTN"}, partners)
}
