package constants

const (
	UploadPath    = "/upload"
	MediaListPath = "/media/"
	MediaPath     = "/media/"

	// UploadNameParam is the query parameter carrying the uploaded file name.
	UploadNameParam = "file"
)

const (
	DefaultUploadHost = "localhost:5400"
	DefaultOrigin     = "http://localhost:8080"
	DefaultPlayer     = "mpv"
	UserAgent         = "homeserver-cli"
)

// PromptMessage is shown in place of a player when no movie name was given.
const PromptMessage = "Please enter a movie name."
