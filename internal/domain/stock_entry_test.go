package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golista/internal/domain"
)

// TestDeriveOrderQuantity testa a regra de derivação da quantidade a pedir.
func TestDeriveOrderQuantity(t *testing.T) {
	testCases := []struct {
		name     string
		current  float64
		minimum  float64
		expected float64
	}{
		{"deficit simples", 2, 5, 3},
		{"estoque no minimo", 5, 5, 0},
		{"estoque acima do minimo", 10, 5, 0},
		{"estoque zerado", 0, 4, 4},
		{"minimo zero", 3, 0, 0},
		{"tudo zerado", 0, 0, 0},
		{"quantidades fracionadas", 1.5, 2.75, 1.25},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := domain.DeriveOrderQuantity(tc.current, tc.minimum)
			assert.Equal(t, tc.expected, result)
		})
	}
}
