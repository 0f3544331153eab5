package core

import (
	"strings"
	"time"
)

// Source tells where a lookup result came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceViaCEP Source = "viacep"
)

// Address is a directory record as returned by ViaCEP. Field values pass
// through untouched; only the lookup key is normalized.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	IBGECode     string `json:"ibge"`
	GIACode      string `json:"gia"`
	AreaCode     string `json:"ddd"`
	SIAFICode    string `json:"siafi"`
}

// LookupResult is the outcome of a postal-code lookup.
type LookupResult struct {
	Address        *Address
	Source         Source
	Cached         bool
	CacheExpiresIn time.Duration // remaining cache TTL on a hit, 0 otherwise
}

// CacheKey returns the store key for a cached directory record.
func CacheKey(cep string) string { return "cep:" + cep }

// NormalizeCEP strips every non-digit character from raw.
func NormalizeCEP(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCEP reports whether cep is exactly 8 ASCII digits.
func ValidCEP(cep string) bool {
	if len(cep) != 8 {
		return false
	}
	for i := 0; i < len(cep); i++ {
		if cep[i] < '0' || cep[i] > '9' {
			return false
		}
	}
	return true
}
