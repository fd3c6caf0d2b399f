package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSwaggerHandler(t *testing.T) {
	Convey("Given a swagger handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		Convey("When registering the swagger handler", func() {
			Register(ctx, mux)

			Convey("Then it should serve the ReDoc shell at /api-docs", func() {
				req := httptest.NewRequest("GET", "/api-docs", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "Redoc.init")
			})

			Convey("And it should serve the OpenAPI document", func() {
				req := httptest.NewRequest("GET", "/openapi.yaml", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "yaml")
				So(w.Body.String(), ShouldContainSubstring, "openapi:")
				So(w.Body.String(), ShouldContainSubstring, "/api/data")
			})
		})

		Convey("When registering on a nil mux", func() {
			Convey("Then it should panic", func() {
				So(func() { Register(ctx, nil) }, ShouldPanic)
			})
		})
	})
}
