package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	a := domain.NewInternedString("x86_64")
	b := domain.NewInternedString("x86_64")

	assert.Equal(t, a.Value(), b.Value())
	assert.Equal(t, "x86_64", a.String())
	assert.NotEqual(t, a.Value(), domain.NewInternedString("noarch").Value())
}

func TestInternedString_JSON(t *testing.T) {
	type record struct {
		Repo domain.InternedString `json:"repo"`
	}

	data, err := json.Marshal(record{Repo: domain.NewInternedString("updates")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"repo":"updates"}`, string(data))

	var decoded record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, domain.NewInternedString("updates").Value(), decoded.Repo.Value())
}
