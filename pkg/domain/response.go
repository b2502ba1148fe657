package domain

type Response struct {
	ChatID           int64
	ReplyToMessageID int
	Text             string
	// Plain skips markdown rendering, for fixed bot texts.
	Plain bool
	Image *Image
}

// Image is sent as a photo with Caption. Response.Text keeps the full answer
// for the text fallback.
type Image struct {
	Data    []byte
	Caption string
}

type ChatAction string

const (
	ChatActionTyping      ChatAction = "typing"
	ChatActionUploadPhoto ChatAction = "upload_photo"
)
