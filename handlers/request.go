package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

var (
	errEmptyBody     = errors.New("request body is empty")
	errMalformedBody = errors.New("request body is not valid JSON")
	errBodyTypes     = errors.New("request body has fields of the wrong type")
)

// decodeJSON reads a single JSON document into dst and classifies failures
// as errEmptyBody, errMalformedBody or errBodyTypes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case errors.As(err, &typeErr):
			return fmt.Errorf("%w: %v", errBodyTypes, err)
		default:
			return fmt.Errorf("%w: %v", errMalformedBody, err)
		}
	}
	if dec.More() {
		return errMalformedBody
	}
	return nil
}

// writeDecodeError renders a decodeJSON failure: 422 for type mismatches,
// 400 for everything else.
func writeDecodeError(w http.ResponseWriter, err error, logger *zap.Logger) {
	logger.Debug("rejected request body", zap.Error(err))
	if errors.Is(err, errBodyTypes) {
		_ = utils.WriteUnprocessable(w)
		return
	}
	_ = utils.WriteBadRequest(w)
}

// pathID parses the {id} URL parameter. Route patterns only admit digits, so
// a parse failure means the id overflowed and no such record exists.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
