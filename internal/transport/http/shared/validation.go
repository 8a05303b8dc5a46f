package shared

import (
	"net/http"

	"perftrack/internal/platform/requestctx"
	"perftrack/internal/transport/http/api"
)

// Validator collects field errors so responses can report all problems
// at once instead of the first one hit.
type Validator struct {
	errs map[string]string
}

func NewValidator() *Validator {
	return &Validator{errs: make(map[string]string)}
}

func (v *Validator) Require(field, value string) *Validator {
	if value == "" {
		v.errs[field] = "is required"
	}
	return v
}

func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.errs[field] = message
	}
	return v
}

func (v *Validator) Valid() bool {
	return len(v.errs) == 0
}

func (v *Validator) Errors() map[string]string {
	return v.errs
}

func FailValidation(w http.ResponseWriter, r *http.Request, v *Validator) {
	api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", "request validation failed", v.Errors(), requestctx.GetRequestID(r.Context()))
}
