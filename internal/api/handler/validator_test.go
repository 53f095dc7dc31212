package handler

import (
	"strings"
	"testing"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name string
		in   any
		want string
	}{
		{
			name: "required uses json name",
			in:   &createDeliveryRequest{},
			want: "customer_id is required",
		},
		{
			name: "oneof lists choices",
			in:   &createDeliveryRequest{CustomerID: "cu1", Priority: "asap"},
			want: "priority must be one of: low, normal, high, urgent",
		},
		{
			name: "nested field path",
			in: &createDeliveryRequest{
				CustomerID: "cu1",
				Schedule:   scheduleRequest{Notes: strings.Repeat("n", 1025)},
			},
			want: "schedule.notes must be at most 1024 characters",
		},
		{
			name: "fail reason",
			in:   &failDeliveryRequest{},
			want: "reason is required",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.in)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Error() != tc.want {
				t.Fatalf("got %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()
	in := &createDeliveryRequest{CustomerID: "cu1", Priority: "high"}
	if err := v.Validate(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
