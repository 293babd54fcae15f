package clip

// Mark locates the clip inside a source video
type Mark struct {
	URL  string
	Time string
}

// Entry is one manifest record: where the video lives, which range to keep,
// and where the audio clip goes relative to the output directory
type Entry struct {
	Name string
	Path string
	Mark Mark
}
