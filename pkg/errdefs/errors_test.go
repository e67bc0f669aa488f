package errdefs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantContract bool
		wantAdvisory bool
		wantSink     bool
		wantInput    bool
	}{
		{name: "contract", err: NewContractError("bad option", nil), wantContract: true},
		{name: "advisory", err: NewAdvisoryError("short password", nil), wantAdvisory: true},
		{name: "sink", err: NewSinkError("clipboard", errors.New("no tty")), wantSink: true},
		{name: "input", err: NewInputError("read", errors.New("eof")), wantInput: true},
		{name: "wrapped contract", err: fmt.Errorf("compile: %w", NewContractError("bad", nil)), wantContract: true},
		{name: "plain", err: errors.New("plain")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContract(tt.err); got != tt.wantContract {
				t.Errorf("IsContract = %v, want %v", got, tt.wantContract)
			}
			if got := IsAdvisory(tt.err); got != tt.wantAdvisory {
				t.Errorf("IsAdvisory = %v, want %v", got, tt.wantAdvisory)
			}
			if got := IsSink(tt.err); got != tt.wantSink {
				t.Errorf("IsSink = %v, want %v", got, tt.wantSink)
			}
			if got := IsInput(tt.err); got != tt.wantInput {
				t.Errorf("IsInput = %v, want %v", got, tt.wantInput)
			}
		})
	}
}

func TestErrorIsMatchesClassAndCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewContractError("unknown web server", nil).WithCode(ErrCodeUnknownOption))

	if !errors.Is(err, &Error{Class: ErrorClassContract, Code: ErrCodeUnknownOption}) {
		t.Error("expected errors.Is to match class and code")
	}
	if errors.Is(err, &Error{Class: ErrorClassContract, Code: ErrCodeValidation}) {
		t.Error("expected errors.Is to reject a different code")
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("not in catalog")
	err := NewContractError("unknown option", cause).WithField("web_server")

	want := "[contract] unknown option (field=web_server): not in catalog"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}
