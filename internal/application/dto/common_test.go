package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := map[string]struct {
		in   dto.PageRequest
		want dto.PageRequest
	}{
		"ceros":         {dto.PageRequest{}, dto.PageRequest{Limit: 20}},
		"negativos":     {dto.PageRequest{Limit: -5, Offset: -1}, dto.PageRequest{Limit: 20}},
		"dentro":        {dto.PageRequest{Limit: 50, Offset: 10}, dto.PageRequest{Limit: 50, Offset: 10}},
		"sobre el tope": {dto.PageRequest{Limit: 1_000_000, Offset: 3}, dto.PageRequest{Limit: dto.MaxPageLimit, Offset: 3}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			page := tc.in
			page.DefaultPage()
			assert.Equal(t, tc.want, page)
		})
	}
}
