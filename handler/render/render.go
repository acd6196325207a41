package render

import (
	"encoding/json"
	"errors"
	"net/http"

	"lending/core"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorln(err)
	}
}

// Error write err, lending error codes map to a status by kind
func Error(w http.ResponseWriter, err error) {
	code := int(core.ErrUnknown)
	var e core.ErrorCode
	if errors.As(err, &e) {
		code = int(e)
	}

	writeError(w, StatusCode(err), code, err)
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, -1, err)
}

// StatusCode http status of err
func StatusCode(err error) int {
	switch core.KindOf(err) {
	case core.KindAuthorization:
		return http.StatusUnauthorized
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindInsufficientFunds, core.KindArithmetic, core.KindPolicyViolation:
		return http.StatusBadRequest
	case core.KindStateConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(H{"code": errCode, "kind": core.KindOf(err).String(), "msg": err.Error()}); err != nil {
		logrus.Errorln(err)
	}
}
