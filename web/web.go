package web

import (
	"context"
	_ "embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/prashil107/attendance/cache"
	"github.com/prashil107/attendance/model"
	"github.com/prashil107/attendance/submission"
	"github.com/rs/zerolog"
)

const FlashCookie = "attendance_flash"

//go:embed form.html
var formHTML string

var formTemplate = template.Must(template.New("form").Parse(formHTML))

type Submitter interface {
	Submit(ctx context.Context, form submission.Form, display submission.Display) submission.Result
}

type Server struct {
	log      zerolog.Logger
	handler  Submitter
	flashes  *cache.Cache
	formPath string
}

func New(log zerolog.Logger, handler Submitter, flashes *cache.Cache, formPath string) *Server {
	if formPath == "" {
		formPath = "/"
	}
	return &Server{
		log:      log,
		handler:  handler,
		flashes:  flashes,
		formPath: formPath,
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc(s.formPath, s.handleForm)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != s.formPath {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.renderForm(w, r)
	case http.MethodPost:
		s.submitForm(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type page struct {
	Action      string
	StudentID   string
	StudentName string
	Actions     []option
	Message     *model.DisplayMessage
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request) {
	values := submission.NewValues()
	data := page{Action: s.formPath}

	if cookie, err := r.Cookie(FlashCookie); err == nil {
		http.SetCookie(w, &http.Cookie{Name: FlashCookie, Path: s.formPath, MaxAge: -1, HttpOnly: true})
		if flash, ok := s.flashes.Pop(cookie.Value); ok {
			message := flash.Message
			data.Message = &message
			values.StudentID = flash.StudentID
			values.StudentName = flash.StudentName
			values.Action = flash.Action
		}
	}

	data.StudentID = values.StudentID
	data.StudentName = values.StudentName
	for _, action := range model.Actions {
		data.Actions = append(data.Actions, option{
			Value:    string(action),
			Label:    actionLabel(action),
			Selected: action == values.Action,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err := formTemplate.Execute(w, data)
	if err != nil {
		s.log.Error().Err(err).Msg("error rendering form")
	}
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	action, err := model.ParseAction(r.PostForm.Get("action"))
	if err != nil {
		s.log.Debug().Err(err).Msg("unknown action posted, using default")
		action = model.DefaultAction()
	}

	values := &submission.Values{
		StudentID:   r.PostForm.Get("studentId"),
		StudentName: r.PostForm.Get("studentName"),
		Action:      action,
	}

	var flash cache.Flash
	s.handler.Submit(r.Context(), values, submission.DisplayFunc(func(message model.DisplayMessage) {
		flash.Message = message
	}))
	flash.StudentID = values.StudentID
	flash.StudentName = values.StudentName
	flash.Action = values.Action

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    s.flashes.Put(flash),
		Path:     s.formPath,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.formPath, http.StatusSeeOther)
}

func actionLabel(action model.Action) string {
	label := strings.ReplaceAll(string(action), "-", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}
