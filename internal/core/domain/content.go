package domain

type Collection struct {
	Handle      string
	Title       string
	Description string
	SEO         SEO
	Path        string
	UpdatedAt   string
}

type Page struct {
	ID          string
	Handle      string
	Title       string
	Body        string
	BodySummary string
	SEO         SEO
	CreatedAt   string
	UpdatedAt   string
}

type Menu struct {
	Title string
	Path  string
}
