package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRBAC(t *testing.T) {
	cases := []struct {
		name     string
		groups   interface{}
		allowed  []string
		wantCode int
		wantNext bool
	}{
		{"matching role", []string{"User"}, []string{"User"}, http.StatusOK, true},
		{"one of several", []string{"Moderator", "User"}, []string{"User"}, http.StatusOK, true},
		{"wrong role", []string{"Guest"}, []string{"User"}, http.StatusForbidden, false},
		{"no groups", nil, []string{"User"}, http.StatusForbidden, false},
		{"wrong claim type", "User", []string{"User"}, http.StatusForbidden, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.groups != nil {
				c.Set("groups", tc.groups)
			}

			called := false
			err := RBAC(tc.allowed...)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})(c)

			if err != nil {
				t.Fatalf("middleware error: %v", err)
			}
			if called != tc.wantNext {
				t.Fatalf("next called = %v, want %v", called, tc.wantNext)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}
}
