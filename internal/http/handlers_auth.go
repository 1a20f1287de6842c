package http

import (
	"net/http"

	"fintrack/internal/log"
	"fintrack/internal/session"
)

type authPage struct {
	Title    string
	Notice   *Notice
	LoggedIn bool
	Username string
}

func (s *Server) renderAuthPage(w http.ResponseWriter, r *http.Request, status int, page, title, username string, notice *Notice) {
	data := authPage{Title: title, Notice: notice, Username: username}
	if notice == nil {
		data.Notice = takeNotice(w, r)
	}
	if err := s.pages.render(w, status, page, data); err != nil {
		logFailure(r, log.ComponentTemplate, log.OpRender, err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
	}
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.renderAuthPage(w, r, http.StatusOK, "register.html", "Register", "", nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.renderAuthPage(w, r, http.StatusBadRequest, "register.html", "Register", "",
			&Notice{Kind: NoticeError, Message: "Invalid form submission."})
		return
	}
	username := formValue(r, "username")
	password := r.PostForm.Get("password")
	confirm := r.PostForm.Get("confirm_password")

	if _, err := s.deps.Credentials.Register(r.Context(), username, password, confirm); err != nil {
		logFailure(r, log.ComponentAuth, log.OpRegister, err)
		status := http.StatusUnprocessableEntity
		if errorType(err) == log.ErrorTypeInternal {
			status = http.StatusInternalServerError
		}
		s.renderAuthPage(w, r, status, "register.html", "Register", username,
			&Notice{Kind: NoticeError, Message: registrationMessage(err)})
		return
	}
	Redirect("/login").Success("Registration successful! You can now log in.").Write(w, r)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		Redirect("/").Write(w, r)
		return
	}
	s.renderAuthPage(w, r, http.StatusOK, "login.html", "Log in", "", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.renderAuthPage(w, r, http.StatusBadRequest, "login.html", "Log in", "",
			&Notice{Kind: NoticeError, Message: "Invalid form submission."})
		return
	}
	username := formValue(r, "username")
	password := r.PostForm.Get("password")

	user, err := s.deps.Credentials.Authenticate(r.Context(), username, password)
	if err == nil {
		err = s.deps.Sessions.Login(r.Context(), w, user.ID)
	}
	if err != nil {
		logFailure(r, log.ComponentAuth, log.OpLogin, err)
		msg, status := "Invalid username or password.", http.StatusUnauthorized
		if errorType(err) == log.ErrorTypeInternal {
			msg, status = msgInternal, http.StatusInternalServerError
		}
		s.renderAuthPage(w, r, status, "login.html", "Log in", username,
			&Notice{Kind: NoticeError, Message: msg})
		return
	}
	Redirect("/").Success("Login successful!").Write(w, r)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Logout(w, r); err != nil {
		logFailure(r, log.ComponentSession, log.OpLogout, err)
	}
	Redirect("/login").Info("You have been logged out.").Write(w, r)
}

// requireAuth sends unauthenticated requests to the login page before the
// handler runs. message, when set, is shown there.
func (s *Server) requireAuth(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := session.RequireAuth(r.Context()); err != nil {
				b := Redirect("/login")
				if message != "" {
					b.Error(message)
				}
				b.Write(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := session.RequireAuth(r.Context()); err != nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
