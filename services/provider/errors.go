package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Category sentinels for upstream failures. Handlers map these to status
// codes; the orchestrator treats them all as "try the next provider".
var (
	ErrNotConfigured = errors.New("no AI provider is configured")
	ErrAuth          = errors.New("provider rejected the API key")
	ErrRateLimited   = errors.New("provider rate limit exceeded")
	ErrTimeout       = errors.New("provider request timed out")
	ErrUpstream      = errors.New("provider request failed")
	ErrBadOutput     = errors.New("provider returned an unusable quiz")
)

// categorize wraps a raw provider error with the matching sentinel so
// callers can switch on errors.Is without knowing which SDK produced it.
func categorize(name string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, name, err)
	}

	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 401, 403:
			return fmt.Errorf("%w: %s: %v", ErrAuth, name, err)
		case 429:
			return fmt.Errorf("%w: %s: %v", ErrRateLimited, name, err)
		case 408, 504:
			return fmt.Errorf("%w: %s: %v", ErrTimeout, name, err)
		default:
			return fmt.Errorf("%w: %s: %v", ErrUpstream, name, err)
		}
	}

	// langchaingo surfaces HTTP failures as flat strings.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid api key") || strings.Contains(msg, "incorrect api key"):
		return fmt.Errorf("%w: %s: %v", ErrAuth, name, err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %s: %v", ErrRateLimited, name, err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return fmt.Errorf("%w: %s: %v", ErrTimeout, name, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrUpstream, name, err)
	}
}
