package postgres

import (
	"property-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreMatchArgs(t *testing.T) {
	args := storeMatchArgs(domain.AgentIdentity{
		Name:    " Ayşe Yılmaz ",
		Company: "Deniz_Emlak",
		Email:   "ayse@deniz.com ",
		Phone:   "+90 (532) 111-22-33",
	})

	assert.Equal(t, []interface{}{"ayse@deniz.com", "905321112233", "Deniz_Emlak", `Deniz\_Emlak`, "Ayşe Yılmaz"}, args)
}

func TestStoreMatchArgs_ShortPhoneIgnored(t *testing.T) {
	args := storeMatchArgs(domain.AgentIdentity{Phone: "12-34"})

	assert.Equal(t, "", args[1])
}
