package site

import (
	"net/url"
	"path"
	"strings"

	"github.com/samber/mo"
)

const (
	Bilibili = "bilibili"
	YouTube  = "youtube"
)

// BilibiliDescriptor handles
//
//	https://www.bilibili.com/video/<id>
//	https://www.bilibili.com/video/<id>?p=<part>
//
// Identifiers are 12 characters including the BV prefix.
func BilibiliDescriptor() Descriptor {
	return Descriptor{
		Hosts: map[string]Extractor{
			"www.bilibili.com": bilibiliID,
			"bilibili.com":     bilibiliID,
			"m.bilibili.com":   bilibiliID,
		},
		IDLength: 12,
	}
}

func bilibiliID(u *url.URL) (string, mo.Option[string]) {
	id := path.Base(strings.TrimSuffix(u.Path, "/"))
	if part := u.Query().Get("p"); part != "" {
		return id, mo.Some(part)
	}
	return id, mo.None[string]()
}

// YouTubeDescriptor handles
//
//	https://www.youtube.com/watch?v=<id>
//	https://www.youtube.com/watch?v=<id>&ab_channel=<channel>
//	https://www.youtube.com/watch?v=<id>&list=<playlist>&index=<n>
//	https://youtu.be/<id>
//
// Playlist position is not tracked: the video id already names the video.
func YouTubeDescriptor() Descriptor {
	return Descriptor{
		Hosts: map[string]Extractor{
			"www.youtube.com": youtubeID,
			"youtube.com":     youtubeID,
			"m.youtube.com":   youtubeID,
			"youtu.be":        youtubeShortID,
		},
		IDLength: 11,
	}
}

func youtubeID(u *url.URL) (string, mo.Option[string]) {
	return u.Query().Get("v"), mo.None[string]()
}

func youtubeShortID(u *url.URL) (string, mo.Option[string]) {
	return strings.Trim(u.Path, "/"), mo.None[string]()
}
