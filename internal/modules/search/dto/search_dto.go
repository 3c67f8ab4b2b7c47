package dto

// NoticeHit is both the indexed notice document and its search result.
type NoticeHit struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Audience    string `json:"audience"`
	PublishedAt int64  `json:"publishedAt"`
}

type MaterialHit struct {
	ID          string `json:"id"`
	CourseID    string `json:"courseId"`
	CourseCode  string `json:"courseCode"`
	CourseTitle string `json:"courseTitle"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
	Note        string `json:"note,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

type SearchQuery struct {
	Q     string `form:"q"`
	Limit int    `form:"limit"`
}

type SearchResponse struct {
	Query     string        `json:"query"`
	Notices   []NoticeHit   `json:"notices"`
	Materials []MaterialHit `json:"materials"`
}
