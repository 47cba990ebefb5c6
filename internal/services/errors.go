package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks part numbers that are rejected before any bridge call.
	ErrInput = errors.New("input error")
	// ErrFeature marks a bridge that lacks a required capability or reports
	// an unknown normalization rules version.
	ErrFeature = errors.New("feature error")
	// ErrNetwork marks transport failures while talking to the bridge.
	ErrNetwork = errors.New("network error")
	// ErrAuth marks credential rejections from the bridge.
	ErrAuth = errors.New("auth error")
	// ErrInternal marks unexpected conditions inside the linker itself.
	ErrInternal = errors.New("linker error")
)

// Kind identifies the error taxonomy bucket an error belongs to.
type Kind string

const (
	KindInput    Kind = "input"
	KindFeature  Kind = "feature"
	KindNetwork  Kind = "network"
	KindAuth     Kind = "auth"
	KindInternal Kind = "internal"
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf maps an error to its taxonomy bucket. Untagged errors classify as
// internal so callers never mistake an unexpected failure for a benign one.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInput):
		return KindInput
	case errors.Is(err, ErrFeature):
		return KindFeature
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindInternal
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
