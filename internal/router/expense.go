package router

import (
	"net/http"
)

func (router *router) indexHandler(w http.ResponseWriter, r *http.Request) {
	router.renderIndex(w, r, formValues{}, "")
}

func (router *router) addHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		router.logger.Error("failed to parse add form", "error", err)
		router.renderIndex(w, r, formValues{}, "Invalid form submission.")
		return
	}

	form := formFromRequest(r)

	_, err := router.service.Add(r.Context(), form.input())
	if err != nil {
		router.logger.Error("failed to add expense", "error", err)
		// Keep what the user typed so a fixed resubmission is cheap.
		router.renderIndex(w, r, form, userMessage(err))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (router *router) editFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		router.renderIndex(w, r, formValues{}, "Invalid expense id.")
		return
	}

	expense, err := router.service.Get(r.Context(), id)
	if err != nil {
		router.logger.Error("failed to load expense for editing", "id", id, "error", err)
		router.renderIndex(w, r, formValues{}, userMessage(err))
		return
	}

	data := editData{
		ID:   id,
		Form: formFromExpense(expense),
	}

	router.renderTemplate(w, editTempl, data)
}

func (router *router) updateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		router.renderIndex(w, r, formValues{}, "Invalid expense id.")
		return
	}

	if err = r.ParseForm(); err != nil {
		router.logger.Error("failed to parse edit form", "id", id, "error", err)
		router.renderIndex(w, r, formValues{}, "Invalid form submission.")
		return
	}

	form := formFromRequest(r)

	_, err = router.service.Update(r.Context(), id, form.input())
	if err != nil {
		router.logger.Error("failed to update expense", "id", id, "error", err)
		data := editData{
			ID:    id,
			Form:  form,
			Error: userMessage(err),
		}
		router.renderTemplate(w, editTempl, data)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (router *router) deleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		router.renderIndex(w, r, formValues{}, "Invalid expense id.")
		return
	}

	if err = router.service.Delete(r.Context(), id); err != nil {
		router.logger.Error("failed to delete expense", "id", id, "error", err)
		router.renderIndex(w, r, formValues{}, userMessage(err))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (router *router) renderIndex(w http.ResponseWriter, r *http.Request, form formValues, errorMessage string) {
	expenses, totals, err := router.service.List(r.Context())
	if err != nil {
		router.logger.Error("failed to load expenses", "error", err)
		data := indexData{
			Form:  form,
			Error: "Unable to load expenses.",
		}
		router.renderTemplate(w, indexTempl, data)
		return
	}

	data := indexData{
		Expenses: buildRows(expenses),
		Form:     form,
		Error:    errorMessage,
	}

	// Totals stay unset on an empty list; the template omits the block.
	if len(expenses) > 0 {
		data.Totals = buildTotals(expenses, totals)
	}

	router.renderTemplate(w, indexTempl, data)
}
