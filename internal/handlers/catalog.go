package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
	"fichapp/internal/views/pages"
)

// Units lists the catalog on GET and adds a unit on POST.
func Units(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		renderCatalog(w, r, http.StatusOK, pages.CatalogData{})
	case http.MethodPost:
		addUnit(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Groups lists the catalog on GET and adds an ingredient group on POST.
func Groups(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		renderCatalog(w, r, http.StatusOK, pages.CatalogData{})
	case http.MethodPost:
		addGroup(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func addUnit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid submission.", http.StatusBadRequest)
		return
	}
	data := pages.CatalogData{}
	if err := ledger.DecodeForm(r.PostForm, &data.Unit); err != nil {
		if verr, ok := ledger.AsValidationError(err); ok {
			data.UnitErrors = verr.Fields
			renderCatalog(w, r, formErrorStatus(r), data)
			return
		}
		http.Error(w, "Invalid submission.", http.StatusBadRequest)
		return
	}

	unit, err := purchases.AddUnit(r.Context(), data.Unit)
	if err != nil {
		if verr, ok := ledger.AsValidationError(err); ok {
			data.UnitErrors = verr.Fields
			renderCatalog(w, r, formErrorStatus(r), data)
			return
		}
		if errors.Is(err, ledger.ErrDuplicateUnit) {
			data.UnitErrors = map[string]string{"code": "A unit with that code already exists."}
			renderCatalog(w, r, conflictStatus(r), data)
			return
		}
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}

	applog.Debug(r.Context(), "unit form accepted", "code", unit.Code)
	renderCatalog(w, r, http.StatusOK, pages.CatalogData{Message: fmt.Sprintf("Unit %s added.", unit.Code)})
}

func addGroup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid submission.", http.StatusBadRequest)
		return
	}
	data := pages.CatalogData{}
	if err := ledger.DecodeForm(r.PostForm, &data.Group); err != nil {
		http.Error(w, "Invalid submission.", http.StatusBadRequest)
		return
	}

	group, err := purchases.AddGroup(r.Context(), data.Group)
	if err != nil {
		if verr, ok := ledger.AsValidationError(err); ok {
			data.GroupErrors = verr.Fields
			renderCatalog(w, r, formErrorStatus(r), data)
			return
		}
		if errors.Is(err, ledger.ErrDuplicateGroup) {
			data.GroupErrors = map[string]string{"name": "A group with that name already exists."}
			renderCatalog(w, r, conflictStatus(r), data)
			return
		}
		status, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, status)
		return
	}

	applog.Debug(r.Context(), "group form accepted", "name", group.Name)
	renderCatalog(w, r, http.StatusOK, pages.CatalogData{Message: fmt.Sprintf("Group %s added.", group.Name)})
}

func renderCatalog(w http.ResponseWriter, r *http.Request, status int, data pages.CatalogData) {
	units, err := purchases.Units(r.Context())
	if err != nil {
		code, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, code)
		return
	}
	groups, err := purchases.Groups(r.Context())
	if err != nil {
		code, message := ledgerErrorStatus(r.Context(), err)
		http.Error(w, message, code)
		return
	}
	data.Units = units
	data.Groups = groups
	renderPage(w, r, status, pages.Catalog(data), pages.CatalogPartial(data))
}
