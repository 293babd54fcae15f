package filesystem

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWorkspace(t *testing.T) {
	Convey("Given an in-memory workspace", t, func() {
		mem := afero.NewMemMapFs()
		ws := NewWorkspaceWithFs(mem)

		Convey("EnsureDir creates nested directories and is idempotent", func() {
			dir := filepath.Join("videos", "bilibili", "BV1GJ411x7h7", "3")
			So(ws.EnsureDir(dir), ShouldBeNil)
			So(ws.EnsureDir(dir), ShouldBeNil)
			So(ws.Exists(dir), ShouldBeTrue)
		})

		Convey("EnsureDir ignores the current directory", func() {
			So(ws.EnsureDir(""), ShouldBeNil)
			So(ws.EnsureDir("."), ShouldBeNil)
		})

		Convey("RemoveAll deletes the whole tree", func() {
			So(mem.MkdirAll(filepath.Join("videos", "youtube", "dQw4w9WgXcQ"), 0o755), ShouldBeNil)
			So(afero.WriteFile(mem, filepath.Join("videos", "youtube", "dQw4w9WgXcQ", "target.mp4"), []byte("x"), 0o644), ShouldBeNil)
			So(ws.RemoveAll("videos"), ShouldBeNil)
			So(ws.Exists("videos"), ShouldBeFalse)
		})

		Convey("RemoveAll on a missing path succeeds", func() {
			So(ws.RemoveAll("missing"), ShouldBeNil)
		})

		Convey("FindByBaseName", func() {
			dir := filepath.Join("videos", "youtube", "dQw4w9WgXcQ")
			So(mem.MkdirAll(filepath.Join(dir, "target"), 0o755), ShouldBeNil)
			So(afero.WriteFile(mem, filepath.Join(dir, "target.mp4.download"), []byte("x"), 0o644), ShouldBeNil)
			So(afero.WriteFile(mem, filepath.Join(dir, "other.mp4"), []byte("x"), 0o644), ShouldBeNil)

			Convey("ignores directories and partial downloads", func() {
				_, ok, err := ws.FindByBaseName(dir, "target")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})

			Convey("returns the first matching file regardless of extension", func() {
				So(afero.WriteFile(mem, filepath.Join(dir, "target.webm"), []byte("x"), 0o644), ShouldBeNil)
				So(afero.WriteFile(mem, filepath.Join(dir, "target.flv"), []byte("x"), 0o644), ShouldBeNil)

				path, ok, err := ws.FindByBaseName(dir, "target")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(path, ShouldEqual, filepath.Join(dir, "target.flv"))
			})

			Convey("reports a missing directory as not found", func() {
				_, ok, err := ws.FindByBaseName("nowhere", "target")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("Fs exposes the backing filesystem", func() {
			So(ws.Fs() == mem, ShouldBeTrue)
		})
	})
}

func TestRunLock(t *testing.T) {
	Convey("Given a video directory", t, func() {
		videoDir := filepath.Join(t.TempDir(), "videos")

		Convey("the lock file sits next to the directory", func() {
			So(LockPath(videoDir), ShouldEqual, videoDir+".lock")
		})

		Convey("a second run cannot take the lock", func() {
			first, err := AcquireRunLock(videoDir)
			So(err, ShouldBeNil)
			So(first.Path(), ShouldEqual, LockPath(videoDir))

			_, err = AcquireRunLock(videoDir)
			So(errors.Is(err, ErrLocked), ShouldBeTrue)

			So(first.Release(), ShouldBeNil)

			again, err := AcquireRunLock(videoDir)
			So(err, ShouldBeNil)
			So(again.Release(), ShouldBeNil)
		})
	})
}
