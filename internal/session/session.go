// Package session keeps the per-browser panel state: the bearer token
// and mobile identifier issued at login, the registration view flag,
// and one-shot flash messages. State lives in a signed cookie and is
// handed to handlers explicitly instead of through ambient globals.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	keyToken            = "jwt_token"
	keyMobile           = "mobile"
	keyShowRegistration = "show_registration"

	flashError   = "error"
	flashSuccess = "success"
)

// State is one user's decoded session. Token and Mobile are either
// both set or both empty; Login and Logout are the only mutators of
// the pair.
type State struct {
	Token            string
	Mobile           string
	ShowRegistration bool

	Errors    []string
	Successes []string

	s *sessions.Session
}

// Manager loads and saves session state.
type Manager struct {
	store *sessions.CookieStore
	name  string
}

// NewManager builds a cookie-backed manager. The cookie is HttpOnly
// and lives for the browser session only.
func NewManager(secret, name string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   0,
	}

	return &Manager{store: store, name: name}
}

// Load decodes the request's session. A missing or undecodable cookie
// yields a fresh logged-out state. Pending flash messages are consumed:
// they surface on exactly this load and the following Save drops them.
func (m *Manager) Load(r *http.Request) *State {
	s, _ := m.store.Get(r, m.name)

	st := &State{s: s}
	st.Token, _ = s.Values[keyToken].(string)
	st.Mobile, _ = s.Values[keyMobile].(string)
	st.ShowRegistration, _ = s.Values[keyShowRegistration].(bool)

	for _, f := range s.Flashes(flashError) {
		if msg, ok := f.(string); ok {
			st.Errors = append(st.Errors, msg)
		}
	}

	for _, f := range s.Flashes(flashSuccess) {
		if msg, ok := f.(string); ok {
			st.Successes = append(st.Successes, msg)
		}
	}

	return st
}

// Save writes the state back onto the response cookie.
func (m *Manager) Save(r *http.Request, w http.ResponseWriter, st *State) error {
	st.s.Values[keyToken] = st.Token
	st.s.Values[keyMobile] = st.Mobile
	st.s.Values[keyShowRegistration] = st.ShowRegistration

	return st.s.Save(r, w)
}

// LoggedIn reports whether the session carries credentials.
func (st *State) LoggedIn() bool {
	return st.Token != "" && st.Mobile != ""
}

// Login stores the credential pair and leaves the registration view.
func (st *State) Login(token, mobile string) {
	st.Token = token
	st.Mobile = mobile
	st.ShowRegistration = false
}

// Logout clears the credential pair.
func (st *State) Logout() {
	st.Token = ""
	st.Mobile = ""
}

// FlashError queues msg for the next render.
func (st *State) FlashError(msg string) {
	st.s.AddFlash(msg, flashError)
}

// FlashSuccess queues msg for the next render.
func (st *State) FlashSuccess(msg string) {
	st.s.AddFlash(msg, flashSuccess)
}
