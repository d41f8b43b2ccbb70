package ollama

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/resilience"
)

// errBadEnvelope marks a chat reply whose Ollama envelope could not be
// decoded, as opposed to a model answer that is not a valid outfit.
var errBadEnvelope = errors.New("malformed stylist envelope")

// StylistStatusError is a non-2xx reply from the stylist model server.
type StylistStatusError struct {
	Model      string
	StatusCode int
	Status     string
	Body       string
}

func (e *StylistStatusError) Error() string {
	if e == nil {
		return "stylist status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("stylist model %q: %s", e.Model, e.Status)
	}
	return fmt.Sprintf("stylist model %q: %s: %s", e.Model, e.Status, strings.TrimSpace(e.Body))
}

type stylistFailure int

const (
	failureNone stylistFailure = iota
	failureCanceled
	failureBreakerOpen
	failureUnreachable
	failureBusy
	failureModelMissing
	failureRejected
	failureBadEnvelope
	failureUnknown
)

func stylistFailureOf(err error) stylistFailure {
	if err == nil {
		return failureNone
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return failureCanceled
	}
	if resilience.IsCircuitOpen(err) {
		return failureBreakerOpen
	}
	if errors.Is(err, errBadEnvelope) {
		return failureBadEnvelope
	}

	var statusErr *StylistStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return failureBusy
		case http.StatusNotFound:
			// Ollama answers 404 for a model that was never pulled.
			return failureModelMissing
		default:
			return failureRejected
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return failureUnreachable
	}
	return failureUnknown
}

// classifyStylistError retries a busy or unreachable model. A missing model
// is not retried but still counts against the breaker, so a misconfigured
// stylist stops being called until the breaker half-opens.
func classifyStylistError(err error) resilience.ErrorClassification {
	switch stylistFailureOf(err) {
	case failureUnreachable, failureBusy:
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	case failureModelMissing, failureUnknown:
		return resilience.ErrorClassification{RecordFailure: true}
	default:
		return resilience.ErrorClassification{}
	}
}

// stylistCallError tags a failed chat call with the domain kind the outfit
// engine uses to pick its fallback reason.
func stylistCallError(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) || domain.IsKind(err, domain.ErrMalformedAdvice) {
		return err
	}
	switch stylistFailureOf(err) {
	case failureBreakerOpen, failureUnreachable, failureBusy:
		return domain.WrapError(domain.ErrTemporary, "ask stylist", err)
	case failureBadEnvelope:
		return domain.WrapError(domain.ErrMalformedAdvice, "ask stylist", err)
	default:
		return err
	}
}
