package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestCategoryFromStatus(t *testing.T) {
	cases := []struct {
		status        int
		irrecoverable bool
	}{
		{400, true},
		{401, true},
		{404, true},
		{408, false},
		{422, true},
		{429, false},
		{500, false},
		{503, false},
	}
	for _, tc := range cases {
		err := FromStatus("op", tc.status, "")
		if got := IsIrrecoverable(err); got != tc.irrecoverable {
			t.Errorf("status %d: IsIrrecoverable = %v, want %v", tc.status, got, tc.irrecoverable)
		}
		if StatusCode(err) != tc.status {
			t.Errorf("status %d: StatusCode = %d", tc.status, StatusCode(err))
		}
	}
}

func TestNetworkFailuresAreRecoverable(t *testing.T) {
	err := FromNetwork("op", errors.New("connection refused"))
	if IsIrrecoverable(err) {
		t.Fatal("network failure classified irrecoverable")
	}
	if StatusCode(err) != 0 {
		t.Fatalf("StatusCode = %d, want 0", StatusCode(err))
	}
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	inner := FromStatus("op", 404, "not here")
	wrapped := fmt.Errorf("loading client: %w", inner)
	if !IsIrrecoverable(wrapped) {
		t.Fatal("wrapping lost classification")
	}
	if StatusCode(wrapped) != 404 {
		t.Fatalf("StatusCode = %d", StatusCode(wrapped))
	}
}

func TestUnclassifiedErrors(t *testing.T) {
	if IsIrrecoverable(errors.New("plain")) {
		t.Fatal("plain error treated as irrecoverable")
	}
	if StatusCode(errors.New("plain")) != 0 {
		t.Fatal("plain error carries a status")
	}
}
