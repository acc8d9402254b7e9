package model

type Video struct {
	ID                    string `json:"id"`
	YoutubeID             string `json:"youtube_id"`
	Title                 string `json:"title"`
	Author                string `json:"author"`
	ThumbnailURL          string `json:"thumbnail_url"`
	Transcript            string `json:"transcript"`
	IsGeneratedTranscript bool   `json:"is_generated_transcript"`
	Ctime                 int64  `json:"ctime"`
}
