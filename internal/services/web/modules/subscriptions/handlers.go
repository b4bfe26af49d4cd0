package subscriptions

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
	"github.com/louisbranch/subtrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/subtrack/internal/services/web/platform/pagerender"
	"github.com/louisbranch/subtrack/internal/services/web/platform/weberror"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/subtrack/internal/services/web/templates"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type handlers struct {
	service service
	deps    module.Dependencies
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{service: s, deps: deps}
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return
	}
	subs, stats, err := h.service.overview(r.Context(), viewer.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	loc, tag := pagerender.Localize(w, r)
	if err := pagerender.WriteFragment(w, r, http.StatusOK, webtemplates.Overview(overviewView(loc, tag, subs, stats))); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) handleNew(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireViewer(w, r); !ok {
		return
	}
	h.writePage(w, r, http.StatusOK, "web.subscriptions.new", func(loc *message.Printer, _ language.Tag) templ.Component {
		return webtemplates.SubscriptionForm(createFormView(loc, webtemplates.FormValues{}, ""))
	})
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return
	}
	input, err := parseInput(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.create(r.Context(), viewer.UserID, input); err != nil {
		if apperrors.KindOf(err) == apperrors.KindInvalidInput {
			WriteDashboard(w, r, h.deps, DashboardForm{
				StatusCode: http.StatusBadRequest,
				Values:     formValues(input),
				Err:        err,
			})
			return
		}
		h.writeError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppDashboard)
}

func (h handlers) handleEdit(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	current, err := h.service.get(r.Context(), viewer.UserID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeEditForm(w, r, http.StatusOK, current.ID, formValues(subscription.InputFrom(current)), nil)
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	input, err := parseInput(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.update(r.Context(), viewer.UserID, id, input); err != nil {
		if apperrors.KindOf(err) == apperrors.KindInvalidInput {
			h.writeEditForm(w, r, http.StatusBadRequest, id, formValues(input), err)
			return
		}
		h.writeError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppDashboard)
}

func (h handlers) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return
	}
	current, err := h.service.get(r.Context(), viewer.UserID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePage(w, r, http.StatusOK, "web.subscriptions.delete.title", func(loc *message.Printer, _ language.Tag) templ.Component {
		return webtemplates.DeleteConfirm(webtemplates.DeleteConfirmView{
			Loc:         loc,
			ServiceName: current.ServiceName,
			Action:      routepath.SubscriptionDelete(current.ID),
			CancelHref:  routepath.AppDashboard,
		})
	})
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return
	}
	if err := h.service.remove(r.Context(), viewer.UserID, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppDashboard)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, h.deps)
}

func (h handlers) requireViewer(w http.ResponseWriter, r *http.Request) (module.Viewer, bool) {
	viewer := h.deps.Viewer(r)
	if !viewer.Signed() {
		h.writeError(w, r, apperrors.E(apperrors.KindUnauthorized, "viewer is not signed in"))
		return module.Viewer{}, false
	}
	return viewer, true
}

func (h handlers) writeEditForm(w http.ResponseWriter, r *http.Request, status int, id string, values webtemplates.FormValues, formErr error) {
	h.writePage(w, r, status, "web.subscriptions.edit", func(loc *message.Printer, _ language.Tag) templ.Component {
		return webtemplates.SubscriptionForm(editFormView(loc, id, values, weberror.PublicMessage(loc, formErr)))
	})
}

func (h handlers) writePage(w http.ResponseWriter, r *http.Request, status int, titleKey string, body func(*message.Printer, language.Tag) templ.Component) {
	if err := pagerender.WriteModulePage(w, r, h.deps, pagerender.ModulePage{
		TitleKey:   titleKey,
		StatusCode: status,
		Body:       body,
	}); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, h.deps)
}

func parseInput(r *http.Request) (subscription.Input, error) {
	if err := r.ParseForm(); err != nil {
		return subscription.Input{}, apperrors.E(apperrors.KindInvalidInput, "invalid form")
	}
	return subscription.Input{
		ServiceName: r.PostFormValue("service_name"),
		MonthlyCost: r.PostFormValue("monthly_cost"),
		BillingDay:  r.PostFormValue("billing_day"),
		Category:    r.PostFormValue("category"),
		Color:       r.PostFormValue("color"),
	}, nil
}
