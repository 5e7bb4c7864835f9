package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	cases := []struct {
		in     string
		want   OrderStatus
		wantOK bool
	}{
		{"pending", OrderStatusPending, true},
		{"PAID", OrderStatusPaid, true},
		{" Shipped ", OrderStatusShipped, true},
		{"cancelled", OrderStatusCancelled, true},
		{"delivered", "", false},
		{"canceled", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseOrderStatus(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
