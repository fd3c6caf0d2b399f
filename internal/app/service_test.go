package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	app "github.com/okian/rosdash/internal/app"
	"github.com/okian/rosdash/internal/domain/dataset"
	"github.com/okian/rosdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func writeTempDataset(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ros_dashboard_data.json")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write dataset file: %v", err)
	}
	return path
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service over a valid dataset file", t, func() {
		ctx := context.Background()
		path := writeTempDataset(t, `{"a": 1}`)
		svc := app.New(app.WithDataPath(path))

		Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stats should report the started state", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["dataPath"], ShouldEqual, path)
				So(stats["reads"], ShouldEqual, 0)
			})
		})
	})

	Convey("Given a service over a missing dataset file", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithDataPath(filepath.Join(t.TempDir(), "missing.json")))

		Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then startup should still succeed", func() {
				// The dataset is written out-of-band; its absence is a
				// request-time error, not a startup error.
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestServiceData(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		path := writeTempDataset(t, `{"a": 1}`)
		svc := app.New(app.WithDataPath(path))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When requesting the dataset", func() {
			doc, err := svc.Data(ctx)

			Convey("Then the decoded document should be returned", func() {
				So(err, ShouldBeNil)
				m, ok := doc.(map[string]any)
				So(ok, ShouldBeTrue)
				So(m["a"], ShouldEqual, json.Number("1"))
			})

			Convey("And the read counter should advance", func() {
				stats := svc.GetStats()
				So(stats["reads"], ShouldEqual, 1)
				So(stats["readErrors"], ShouldEqual, 0)
				So(stats, ShouldContainKey, "lastReadUnix")
			})
		})

		Convey("When the file changes between requests", func() {
			_, err := svc.Data(ctx)
			So(err, ShouldBeNil)

			So(os.WriteFile(path, []byte(`{"a": 2}`), 0600), ShouldBeNil)
			doc, err := svc.Data(ctx)

			Convey("Then the fresh contents should be served (no caching)", func() {
				So(err, ShouldBeNil)
				m, ok := doc.(map[string]any)
				So(ok, ShouldBeTrue)
				So(m["a"], ShouldEqual, json.Number("2"))
			})
		})

		Convey("When the file is deleted between requests", func() {
			So(os.Remove(path), ShouldBeNil)
			doc, err := svc.Data(ctx)

			Convey("Then the read should fail with ErrNotFound", func() {
				So(doc, ShouldBeNil)
				So(errors.Is(err, dataset.ErrNotFound), ShouldBeTrue)
			})

			Convey("And the error counter should advance", func() {
				stats := svc.GetStats()
				So(stats["readErrors"], ShouldEqual, 1)
			})
		})

		Convey("When the file is overwritten with malformed JSON", func() {
			So(os.WriteFile(path, []byte(`{"a":`), 0600), ShouldBeNil)
			doc, err := svc.Data(ctx)

			Convey("Then the read should fail with ErrMalformed", func() {
				So(doc, ShouldBeNil)
				So(errors.Is(err, dataset.ErrMalformed), ShouldBeTrue)
			})
		})
	})
}

func TestServiceOptions(t *testing.T) {
	Convey("Given service construction options", t, func() {
		Convey("When constructed without options", func() {
			svc := app.New()

			Convey("Then it should use the conventional dataset path", func() {
				stats := svc.GetStats()
				So(stats["dataPath"], ShouldEqual, "data/ros_dashboard_data.json")
			})
		})

		Convey("When constructed with an explicit logger", func() {
			svc := app.New(app.WithLogger(logger.Get()), app.WithDataPath("x.json"))

			Convey("Then it should be creatable", func() {
				So(svc, ShouldNotBeNil)
			})
		})
	})
}
