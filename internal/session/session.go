package session

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

// New creates a new session manager backed by scs's in-memory store. Session
// state is a single is_admin flag per client, so losing sessions on restart
// only means logging in again.
func New(isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}
