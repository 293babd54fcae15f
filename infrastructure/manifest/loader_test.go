package manifest

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/simplifiedchinese"

	. "github.com/smartystreets/goconvey/convey"
)

const jsonManifest = `[
	{
		"name": "Intro",
		"path": "intro.mp3",
		"mark": {"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "time": "00:00:05~00:00:09"}
	},
	{
		"name": "Part three",
		"path": "bili/part3.mp3",
		"mark": {"url": "https://www.bilibili.com/video/BV1GJ411x7h7?p=3", "time": "01:02~01:10.5"},
		"note": "extra fields are ignored"
	}
]`

const yamlManifest = `
- name: Intro
  path: intro.mp3
  mark:
    url: https://www.youtube.com/watch?v=dQw4w9WgXcQ
    time: "00:00:05~00:00:09"
`

func TestLoad(t *testing.T) {
	Convey("Given a manifest on disk", t, func() {
		mem := afero.NewMemMapFs()

		Convey("a JSON manifest keeps entry order", func() {
			So(afero.WriteFile(mem, "list.json", []byte(jsonManifest), 0o644), ShouldBeNil)

			entries, err := Load(mem, "list.json", "")
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].Name, ShouldEqual, "Intro")
			So(entries[0].Mark.Time, ShouldEqual, "00:00:05~00:00:09")
			So(entries[1].Path, ShouldEqual, "bili/part3.mp3")
			So(entries[1].Mark.URL, ShouldEqual, "https://www.bilibili.com/video/BV1GJ411x7h7?p=3")
		})

		Convey("a YAML manifest with the same shape is accepted", func() {
			So(afero.WriteFile(mem, "list.yaml", []byte(yamlManifest), 0o644), ShouldBeNil)

			entries, err := Load(mem, "list.yaml", "utf-8")
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 1)
			So(entries[0].Mark.URL, ShouldEqual, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		})

		Convey("a byte order mark is tolerated", func() {
			So(afero.WriteFile(mem, "bom.json", append([]byte("\ufeff"), jsonManifest...), 0o644), ShouldBeNil)

			entries, err := Load(mem, "bom.json", "utf-8")
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 2)
		})

		Convey("a GBK manifest decodes with its encoding", func() {
			content := `[{"name": "片头", "path": "片头.mp3", "mark": {"url": "https://www.bilibili.com/video/BV1GJ411x7h7", "time": "00:01~00:02"}}]`
			encoded, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(content))
			So(err, ShouldBeNil)
			So(afero.WriteFile(mem, "gbk.json", encoded, 0o644), ShouldBeNil)

			entries, err := Load(mem, "gbk.json", "gbk")
			So(err, ShouldBeNil)
			So(entries[0].Name, ShouldEqual, "片头")
			So(entries[0].Path, ShouldEqual, "片头.mp3")
		})

		Convey("an empty list has no entries", func() {
			So(afero.WriteFile(mem, "empty.json", []byte("[]"), 0o644), ShouldBeNil)

			entries, err := Load(mem, "empty.json", "")
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 0)
		})

		Convey("a missing file is an error", func() {
			_, err := Load(mem, "missing.json", "")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to read manifest")
		})

		Convey("an unknown encoding is an error", func() {
			So(afero.WriteFile(mem, "list.json", []byte(jsonManifest), 0o644), ShouldBeNil)

			_, err := Load(mem, "list.json", "klingon")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unsupported manifest encoding")
		})
	})
}

func TestParse_Invalid(t *testing.T) {
	Convey("Malformed manifests are rejected before any entry runs", t, func() {
		cases := map[string]string{
			"empty file":       "  \n",
			"object not array": `{"name": "x"}`,
			"broken json":      `[{"name": "x",]`,
			"missing mark":     `[{"name": "x", "path": "x.mp3"}]`,
			"missing url":      `[{"name": "x", "path": "x.mp3", "mark": {"time": "00:01~00:02"}}]`,
			"missing time":     `[{"name": "x", "path": "x.mp3", "mark": {"url": "https://youtu.be/dQw4w9WgXcQ"}}]`,
			"missing path":     `[{"name": "x", "mark": {"url": "https://youtu.be/dQw4w9WgXcQ", "time": "00:01~00:02"}}]`,
			"yaml mapping":     "name: x\npath: y\n",
		}

		for name, content := range cases {
			Convey(name, func() {
				_, err := Parse([]byte(content))
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrInvalidManifest), ShouldBeTrue)
			})
		}
	})

	Convey("Errors name the offending entry", t, func() {
		_, err := Parse([]byte(`[
			{"name": "ok", "path": "a.mp3", "mark": {"url": "u", "time": "t"}},
			{"name": "bad", "path": "", "mark": {"url": "", "time": "t"}}
		]`))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "entry 2: missing path, mark.url")
	})
}
