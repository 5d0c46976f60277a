package tui

// contentLoaded is sent when the initial content fetch finishes.
type contentLoaded struct {
	Err error
}

// loginDone carries the result of a login attempt.
type loginDone struct {
	Err error
}

// saveDone carries the result of a save.
type saveDone struct {
	Err error
}
