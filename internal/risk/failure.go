package risk

import (
	"errors"
	"net/http"

	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
)

// Kind is the closed set of outcomes a failed risk query can have.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindNoData
	KindInvalidInput
	KindUnavailable
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNoData:
		return "no_data"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnavailable:
		return "predictor_unavailable"
	case KindRejected:
		return "predictor_rejected"
	default:
		return "internal"
	}
}

const (
	MsgUnauthorized         = "Unauthorized: No user ID found."
	MsgNoReadings           = "No readings found for this user. Log at least one reading to get a risk score."
	MsgInvalidInput         = "Invalid input for risk score."
	MsgPredictorUnavailable = "Failed to retrieve risk score. Make sure the risk predictor service is running and reachable."
	MsgPredictorRejected    = "Risk predictor failed to return a prediction."
	MsgInternal             = "Internal server error while fetching risk score."
)

// Response is a translated failure ready to be written as JSON.
type Response struct {
	Status int
	Body   map[string]any
}

// Classify maps err onto a Kind. Errors that are not *errors.AppError are
// always internal.
func Classify(err error) Kind {
	appErr, ok := apperrors.As(err)
	if !ok {
		return KindInternal
	}

	switch appErr.Type {
	case apperrors.ErrorTypePermission:
		return KindUnauthorized
	case apperrors.ErrorTypeNotFound:
		if errors.Is(appErr, apperrors.ErrNoReadings) {
			return KindNoData
		}
		return KindInternal
	case apperrors.ErrorTypeValidation:
		return KindInvalidInput
	case apperrors.ErrorTypeExternal, apperrors.ErrorTypeTimeout:
		return KindUnavailable
	case apperrors.ErrorTypeRejected:
		return KindRejected
	default:
		return KindInternal
	}
}

// Translate turns err into the status and body the caller sees. Stack
// locations and wrapped database errors never reach the body.
func Translate(err error) Response {
	appErr, _ := apperrors.As(err)

	switch Classify(err) {
	case KindUnauthorized:
		return Response{Status: http.StatusUnauthorized, Body: map[string]any{"msg": MsgUnauthorized}}
	case KindNoData:
		return Response{Status: http.StatusNotFound, Body: map[string]any{"msg": MsgNoReadings}}
	case KindInvalidInput:
		return failed(http.StatusBadRequest, MsgInvalidInput, appErr.Message)
	case KindUnavailable:
		return failed(http.StatusInternalServerError, MsgPredictorUnavailable, appErr.Detail())
	case KindRejected:
		var details any = noPayload
		if p, ok := appErr.Context["payload"]; ok && p != nil {
			details = p
		}
		return failed(http.StatusInternalServerError, MsgPredictorRejected, details)
	default:
		details := http.StatusText(http.StatusInternalServerError)
		if appErr != nil {
			details = appErr.Message
		}
		return failed(http.StatusInternalServerError, MsgInternal, details)
	}
}

func failed(status int, msg string, details any) Response {
	return Response{
		Status: status,
		Body: map[string]any{
			"success": false,
			"msg":     msg,
			"details": details,
		},
	}
}
