package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/http/validation"
	"github.com/ticketdesk/admin-console/internal/service"
)

const (
	usersPath = "/dashboard/users"

	msgUsersLoadFailed  = "No se pudieron cargar los usuarios."
	msgUserDeleteFailed = "No se pudo eliminar el usuario. Intente nuevamente."
)

type toastNotice struct {
	Message string
	Type    string
}

// usersToasts are the notices a redirect back to the list may ask for.
//
//nolint:gochecknoglobals // static read-only lookup
var usersToasts = map[string]toastNotice{
	"created":       {"El nuevo usuario se ha creado correctamente.", "success"},
	"updated":       {"Los cambios se guardaron correctamente.", "success"},
	"deleted":       {"El usuario ha sido eliminado correctamente.", "success"},
	"delete-failed": {msgUserDeleteFailed, "error"},
}

// Users lists users with search and paging.
func (h *UIHandlers) Users(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := strings.TrimSpace(q.Get("q"))
	pg := getPageParams(q)
	limit, offset := pg.LimitAndOffset()

	meta := PageMeta{Title: "Usuarios - Consola", PageTitle: "Usuarios", CurrentPage: PageUsers}
	builder := NewTemplateData(r, meta).With("Search", search)
	if notice, ok := usersToasts[q.Get("toast")]; ok {
		builder.WithToast(notice.Message, notice.Type)
	}

	page, err := h.Users.List(r.Context(), service.UserListOptions{Search: search, Limit: limit, Offset: offset})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to load users for UI", "error", err)
		builder.WithError(msgUsersLoadFailed).With("Users", []domainauth.User{})
		h.renderDashboardPage(w, r, builder.Build())
		return
	}

	builder.
		With("Users", page.Users).
		WithPagination(PaginationData{
			Page:       pg.Page,
			PageSize:   pg.PageSize,
			TotalCount: page.Total,
			Shown:      len(page.Users),
			BasePath:   usersPath,
		})
	h.renderDashboardPage(w, r, builder.Build())
}

// userFormData is the posted user form.
type userFormData struct {
	Firstname    string
	Lastname     string
	Email        string
	Annex        string
	Status       bool
	IsMailable   bool
	IsNotifiable bool
}

func (d userFormData) input() domainauth.UserInput {
	return domainauth.UserInput{
		Firstname:    d.Firstname,
		Lastname:     d.Lastname,
		Email:        d.Email,
		Annex:        d.Annex,
		Status:       d.Status,
		IsMailable:   d.IsMailable,
		IsNotifiable: d.IsNotifiable,
	}
}

func formDataFromUser(u *domainauth.User) userFormData {
	return userFormData{
		Firstname:    u.Firstname,
		Lastname:     u.Lastname,
		Email:        u.Email,
		Annex:        u.Annex,
		Status:       u.Status,
		IsMailable:   u.IsMailable,
		IsNotifiable: u.IsNotifiable,
	}
}

// parseUserForm reads and validates the user form. Switches post "on" when set.
func parseUserForm(r *http.Request) (userFormData, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return userFormData{}, map[string]string{"form": "No se pudo leer el formulario."}
	}
	data := userFormData{
		Firstname:    strings.TrimSpace(r.PostFormValue("firstname")),
		Lastname:     strings.TrimSpace(r.PostFormValue("lastname")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		Annex:        strings.TrimSpace(r.PostFormValue("annex")),
		Status:       formSwitch(r, "status"),
		IsMailable:   formSwitch(r, "isMailable"),
		IsNotifiable: formSwitch(r, "isNotifiable"),
	}

	errs := validation.New().
		Field("firstname", data.Firstname, validation.Required("Nombre"), validation.MaxRunes("Nombre", 100)).
		Field("lastname", data.Lastname, validation.Required("Apellido"), validation.MaxRunes("Apellido", 100)).
		Field("email", data.Email, validation.Required("Email"), validation.MaxRunes("Email", 254), validation.Email()).
		Field("annex", data.Annex, validation.MaxRunes("Anexo", 20)).
		Errors()
	return data, errs
}

func formSwitch(r *http.Request, name string) bool {
	switch strings.ToLower(r.PostFormValue(name)) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

// userFormService adapts UsersService to the form handler.
type userFormService struct {
	users UsersService
}

func (s userFormService) Create(ctx context.Context, d userFormData) error {
	_, err := s.users.Create(ctx, d.input())
	return err
}

func (s userFormService) Update(ctx context.Context, id int, d userFormData) error {
	_, err := s.users.Update(ctx, id, d.input())
	return err
}

func userFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Editar Usuario - Consola", PageTitle: "Editar Usuario", CurrentPage: PageUserForm}
	}
	return PageMeta{Title: "Nuevo Usuario - Consola", PageTitle: "Nuevo Usuario", CurrentPage: PageUserForm}
}

// renderUserForm fills in the chrome for data["Mode"], which defaults to
// create. Keys already in data win over the chrome.
func (h *UIHandlers) renderUserForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	mode := FormModeCreate
	switch m := data["Mode"].(type) {
	case FormMode:
		if m == FormModeEdit {
			mode = m
		}
	case string:
		if FormMode(m) == FormModeEdit {
			mode = FormModeEdit
		}
	}

	page := basePageData(r, userFormMeta(mode))
	for k, v := range data {
		page[k] = v
	}
	page["Mode"] = string(mode)
	if page["Errors"] == nil {
		page["Errors"] = map[string]string{}
	}
	h.renderDashboardPage(w, r, page)
}

// UserNew renders an empty create form. New users start active with both
// notification channels on.
func (h *UIHandlers) UserNew(w http.ResponseWriter, r *http.Request) {
	h.renderUserForm(w, r, map[string]any{
		"Mode":     FormModeCreate,
		"FormData": userFormData{Status: true, IsMailable: true, IsNotifiable: true},
	})
}

// UserEdit renders the edit form for an existing user.
func (h *UIHandlers) UserEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if service.IsNotFound(err) || errors.Is(err, service.ErrInvalidUserID) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "failed to load user for edit", "user_id", id, "error", err)
		h.renderUserForm(w, r, map[string]any{
			"Mode":         FormModeEdit,
			"UserID":       id,
			"FormData":     userFormData{},
			"Error":        true,
			"ErrorMessage": processError(err, nil),
			"LoadFailed":   true,
		})
		return
	}

	h.renderUserForm(w, r, map[string]any{
		"Mode":     FormModeEdit,
		"UserID":   id,
		"FormData": formDataFromUser(user),
	})
}

// UserCreate handles the create form submission.
func (h *UIHandlers) UserCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[userFormData]{
		W: w, R: r,
		Mode:        FormModeCreate,
		Parser:      parseUserForm,
		Service:     userFormService{users: h.Users},
		Renderer:    h.renderUserForm,
		SuccessURL:  usersPath + "?toast=created",
		ErrorStatus: http.StatusUnprocessableEntity,
		PageMeta:    userFormMeta(FormModeCreate),
	})
}

// UserUpdate handles the edit form submission.
func (h *UIHandlers) UserUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[userFormData]{
		W: w, R: r,
		Mode:        FormModeEdit,
		Parser:      parseUserForm,
		Service:     userFormService{users: h.Users},
		Renderer:    h.renderUserForm,
		SuccessURL:  usersPath + "?toast=updated",
		ErrorStatus: http.StatusUnprocessableEntity,
		PageMeta:    userFormMeta(FormModeEdit),
		ExtraData:   map[string]any{"UserID": r.PathValue("id")},
	})
}

// UserDelete removes a user and returns to the list. htmx callers that hit
// an error get a toast and keep the current page.
func (h *UIHandlers) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	if err := h.Users.Delete(r.Context(), id); err != nil {
		h.logger().WarnContext(r.Context(), "failed to delete user", "user_id", id, "error", err)
		if IsHTMX(r) {
			triggerToast(w, msgUserDeleteFailed, "error")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		redirectTo(w, r, usersPath+"?toast=delete-failed")
		return
	}

	redirectTo(w, r, usersPath+"?toast=deleted")
}
