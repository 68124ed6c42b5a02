package logout_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/merchdesk/merchdesk/internal/app/features/logout"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/testutil"
	"go.uber.org/zap"
)

func TestHandleLogoutAnonymous(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-32-bytes-long!!", "merchdesk-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	tokens := auth.NewTokenCodec("test-session-key-32-bytes-long!!", false)
	h := logout.NewHandler(sm, tokens, nil, nil, zap.NewNop())

	req := testutil.NewRequest(http.MethodPost, "/logout")
	rec := testutil.NewRecorder()
	h.HandleLogout(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/login")

	// The backend token cookie is expired on the way out.
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if strings.Contains(c.Name, "token") && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Errorf("token cookie not cleared; cookies = %v", rec.Result().Cookies())
	}
}
