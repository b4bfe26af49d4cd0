package subscriptions

import (
	"net/http"

	"github.com/a-h/templ"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
	"github.com/louisbranch/subtrack/internal/services/web/platform/pagerender"
	"github.com/louisbranch/subtrack/internal/services/web/platform/weberror"
	webtemplates "github.com/louisbranch/subtrack/internal/services/web/templates"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DashboardForm is the state of the new-subscription form on the dashboard.
type DashboardForm struct {
	StatusCode int
	Values     webtemplates.FormValues
	Err        error
}

// WriteDashboard renders the viewer's overview next to the create form.
func WriteDashboard(w http.ResponseWriter, r *http.Request, deps module.Dependencies, form DashboardForm) {
	svc := newService(deps.Subscriptions)
	viewer := deps.Viewer(r)
	if !viewer.Signed() {
		weberror.WriteModuleError(w, r, apperrors.E(apperrors.KindUnauthorized, "viewer is not signed in"), deps)
		return
	}
	subs, stats, err := svc.overview(r.Context(), viewer.UserID)
	if err != nil {
		weberror.WriteModuleError(w, r, err, deps)
		return
	}
	err = pagerender.WriteModulePage(w, r, deps, pagerender.ModulePage{
		TitleKey:   "web.dashboard.title",
		StatusCode: form.StatusCode,
		Body: func(loc *message.Printer, tag language.Tag) templ.Component {
			return webtemplates.Dashboard(webtemplates.DashboardView{
				Loc:      loc,
				Email:    viewer.Email,
				Overview: overviewView(loc, tag, subs, stats),
				Form:     createFormView(loc, form.Values, weberror.PublicMessage(loc, form.Err)),
			})
		},
	})
	if err != nil {
		weberror.WriteModuleError(w, r, err, deps)
	}
}
