package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"school-admin/models"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("languagelevel", func(fl validator.FieldLevel) bool {
		return models.LanguageLevel(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.Weekdays, fl.Field().String())
	}))
	return v
}

// decodeAndValidate reads a JSON body into dst and checks its validate tags.
// On failure the response has been written and false is returned.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		writeError(w, msgInvalidBody, http.StatusBadRequest)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Printf("❌ Error validating request: %v", err)
			writeError(w, msgInvalidBody, http.StatusBadRequest)
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fe.Tag()
		}
		log.Printf("❌ Validation failed for %s %s: %v", r.Method, r.URL.Path, fields)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidForm, Fields: fields})
		return false
	}
	return true
}

// fieldPath drops the struct name from the namespace: "ClassInput.days[0]" -> "days[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
