package resilience

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"explicit transient", NewTransientError(errors.New("short snapshot")), true},
		{"wrapped transient", fmt.Errorf("fetch: %w", NewTransientError(errors.New("short"))), true},
		{"eris wrapped transient", eris.Wrap(NewTransientError(errors.New("short")), "snapshot: fetch"), true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"connection reset string", errors.New("read tcp: connection reset by peer"), true},
		{"dns failure string", errors.New("dial tcp: lookup x: no such host"), true},
		{"plain error", errors.New("invalid column mapping"), false},
		{"cancellation", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
