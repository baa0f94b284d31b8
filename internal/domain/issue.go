package domain

// Issue is a single newsletter issue to broadcast. Issues are transient:
// they are delivered, not persisted.
type Issue struct {
	Title string
	// HTML and Text carry the two bodies of a multipart message.
	HTML string
	Text string
}
