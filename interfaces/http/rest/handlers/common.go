// Package handlers turns HTTP requests into commands and queries.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"fillai-backend/application/commands/bus"
	querybus "fillai-backend/application/queries/bus"
	"fillai-backend/pkg/common"
	pkgerrors "fillai-backend/pkg/errors"

	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies. Course input is the largest.
const maxBodyBytes = 1 << 20

// CommandSender dispatches commands.
type CommandSender interface {
	Send(ctx context.Context, cmd bus.Command) error
}

// QueryAsker dispatches queries.
type QueryAsker interface {
	Ask(ctx context.Context, query querybus.Query) (interface{}, error)
}

// base holds what every handler needs.
type base struct {
	commands CommandSender
	queries  QueryAsker
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (b *base) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := common.ParseJSONBody(w, r, v, maxBodyBytes); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return pkgerrors.NewValidationError("invalid request body").WithCause(err)
	}
	return nil
}

// send dispatches cmd and writes 204, or the error.
func (b *base) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	if err := b.commands.Send(r.Context(), cmd); err != nil {
		b.errors.Handle(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

// ask runs query and writes its result with status.
func (b *base) ask(w http.ResponseWriter, r *http.Request, status int, query querybus.Query) {
	result, err := b.queries.Ask(r.Context(), query)
	if err != nil {
		b.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, status, result)
}

// floatParam parses an optional float query parameter.
func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, pkgerrors.NewValidationError(name + " must be a number")
	}
	return v, nil
}

// boolParam parses an optional boolean query parameter.
func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.NewValidationError(name + " must be true or false")
	}
	return v, nil
}
