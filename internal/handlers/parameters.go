package handlers

import (
	"net/http"

	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
	"fichapp/internal/views/pages"
)

// Parameters shows the financial parameters on GET and saves them on POST. The form
// posts parallel name, value and note lists.
func Parameters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		renderParameters(w, r, http.StatusOK, pages.ParametersData{})
	case http.MethodPost:
		saveParameters(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func saveParameters(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid submission.", http.StatusBadRequest)
		return
	}

	names := r.PostForm["name"]
	values := r.PostForm["value"]
	notes := r.PostForm["note"]
	inputs := make([]ledger.ParameterInput, 0, len(names))
	for i, name := range names {
		in := ledger.ParameterInput{Name: name}
		if i < len(values) {
			value, err := ledger.ParseDecimal(values[i])
			if err != nil {
				renderParameters(w, r, formErrorStatus(r), pages.ParametersData{
					Errors: map[string]string{"value": "Enter a number for " + name + "."},
				})
				return
			}
			in.Value = value
		}
		if i < len(notes) {
			in.Note = notes[i]
		}
		inputs = append(inputs, in)
	}

	if err := purchases.UpdateParameters(r.Context(), inputs); err != nil {
		if verr, ok := ledger.AsValidationError(err); ok {
			renderParameters(w, r, formErrorStatus(r), pages.ParametersData{Errors: verr.Fields})
			return
		}
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}

	applog.Info(r.Context(), "financial parameters updated", "count", len(inputs))
	renderParameters(w, r, http.StatusOK, pages.ParametersData{Message: "Parameters saved."})
}

func renderParameters(w http.ResponseWriter, r *http.Request, status int, data pages.ParametersData) {
	params, err := purchases.Parameters(r.Context())
	if err != nil {
		code, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, code)
		return
	}
	data.Parameters = params
	renderPage(w, r, status, pages.Parameters(data), pages.ParametersPartial(data))
}
