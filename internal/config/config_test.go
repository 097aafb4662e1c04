package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a missing config file", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		cfg, err := Load(path)

		Convey("Defaults are returned and written with 0600", func() {
			So(err, ShouldBeNil)
			So(cfg.UpcomingDays, ShouldEqual, 7)
			So(cfg.MonthOverflowCap, ShouldEqual, 3)
			So(cfg.NotificationTTL, ShouldEqual, 5*time.Second)
			So(cfg.RequestTimeout, ShouldEqual, time.Duration(0))

			st, err := os.Stat(path)
			So(err, ShouldBeNil)
			So(st.Mode().Perm(), ShouldEqual, os.FileMode(0o600))
		})

		Convey("A reload reads the same values back", func() {
			again, err := Load(path)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, cfg)
		})
	})

	Convey("Given a partial config file", t, func() {
		path := filepath.Join(t.TempDir(), "config.yaml")
		yml := "api_base_url: http://backend:5000/\n" +
			"notification_ttl: 3s\n" +
			"request_timeout: 10s\n" +
			"log_level: DEBUG\n" +
			"refresh: \"off\"\n" +
			"ics:\n  - url: https://example.com/a.ics\n"
		So(os.WriteFile(path, []byte(yml), 0o600), ShouldBeNil)

		cfg, err := Load(path)
		So(err, ShouldBeNil)

		Convey("Given values are kept and the rest normalized", func() {
			So(cfg.APIBaseURL, ShouldEqual, "http://backend:5000")
			So(cfg.NotificationTTL, ShouldEqual, 3*time.Second)
			So(cfg.RequestTimeout, ShouldEqual, 10*time.Second)
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.Listen, ShouldEqual, defaultListen)
			So(cfg.ICS[0].ID, ShouldEqual, "ics1")
			So(cfg.RefreshEnabled(), ShouldBeFalse)
			So(cfg.Snapshot.Width, ShouldEqual, 1280)
		})
	})

	Convey("Broken YAML is an error", t, func() {
		path := filepath.Join(t.TempDir(), "config.yaml")
		So(os.WriteFile(path, []byte("listen: [unclosed"), 0o600), ShouldBeNil)
		_, err := Load(path)
		So(err, ShouldNotBeNil)
	})

	Convey("Location falls back to Local on a bad zone", t, func() {
		cfg := DefaultConfig()
		loc, err := cfg.Location()
		So(err, ShouldBeNil)
		So(loc.String(), ShouldEqual, "Europe/Warsaw")

		cfg.Timezone = "Nowhere/Land"
		loc, err = cfg.Location()
		So(err, ShouldNotBeNil)
		So(loc, ShouldEqual, time.Local)
	})
}
