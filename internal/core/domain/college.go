package domain

import "time"

// College is the confirmed subject of a conversation. At most one College
// is bound per session; its presence switches the controller from
// resolution mode to question-answering mode. It is created only by a
// successful confirmation and destroyed only by an explicit reset.
type College struct {
	// ID is the stable identifier assigned by the backend.
	ID string `json:"id"`
	// Name is the college name as typed by the user, which is not
	// necessarily the canonical name of the confirmed website.
	Name string `json:"name"`
	// Domain is the locator of the confirmed official website.
	Domain string `json:"domain"`
	// PagesCount is the number of indexed pages backing the college.
	PagesCount int `json:"pages_count"`
}

// CollegeInfo is the backend's full descriptor for a college, as returned
// by the fetch operation. Used for session restore and diagnostics.
type CollegeInfo struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OfficialDomain string    `json:"official_domain"`
	Scraped        bool      `json:"scraped"`
	PagesCount     int       `json:"pages_count"`
	CreatedAt      time.Time `json:"created_at"`
}
