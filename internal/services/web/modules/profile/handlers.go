package profile

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/subtrack/internal/services/profiles/profile"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
	"github.com/louisbranch/subtrack/internal/services/web/platform/flash"
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

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return
	}
	current, err := h.service.load(r.Context(), viewer.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeForm(w, r, http.StatusOK, webtemplates.ProfileView{
		Email:       current.Email,
		FullName:    current.FullName,
		PhoneNumber: current.PhoneNumber,
	})
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form"))
		return
	}
	input := profile.Input{
		FullName:    r.PostFormValue("full_name"),
		PhoneNumber: r.PostFormValue("phone_number"),
	}
	if _, err := h.service.save(r.Context(), viewer.UserID, input); err != nil {
		if apperrors.KindOf(err) != apperrors.KindInvalidInput {
			h.writeError(w, r, err)
			return
		}
		loc, _ := pagerender.Localize(w, r)
		h.writeForm(w, r, http.StatusBadRequest, webtemplates.ProfileView{
			Email:       viewer.Email,
			FullName:    input.FullName,
			PhoneNumber: input.PhoneNumber,
			Error:       weberror.PublicMessage(loc, err),
		})
		return
	}
	flash.Write(w, r, flash.Success("web.profile.saved"), h.deps.SchemePolicy)
	httpx.WriteRedirect(w, r, routepath.AppProfile)
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

func (h handlers) writeForm(w http.ResponseWriter, r *http.Request, status int, view webtemplates.ProfileView) {
	if err := pagerender.WriteModulePage(w, r, h.deps, pagerender.ModulePage{
		TitleKey:   "web.profile.title",
		StatusCode: status,
		Body: func(loc *message.Printer, _ language.Tag) templ.Component {
			view.Loc = loc
			return webtemplates.ProfileForm(view)
		},
	}); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, h.deps)
}
