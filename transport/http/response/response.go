// Package response writes the JSON envelopes every endpoint answers with.
package response

import (
	"encoding/json"
	"net/http"
	"rental/shared/constant"
	"rental/shared/failure"

	"github.com/rs/zerolog/log"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

// WithJSON wraps payload in {"data": ...}.
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError answers with the status tagged on err. Untagged errors become a bare 500
// so storage and network details stay in the logs.
func WithError(writer http.ResponseWriter, err error) {
	message := failure.PublicMessage(err)

	write(writer, failure.GetCode(err), Error{Error: &message})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Int("status", code).Msg("failed to encode response")
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		log.Debug().Err(err).Msg("client went away before the response was written")
	}
}
