package topics

import "strings"

// Renderer formats topic content for the terminal. format is the topic
// file extension, e.g. ".md".
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer prints topics as they are written.
type PlainRenderer struct{}

// Render returns content, ending it with a newline.
func (r *PlainRenderer) Render(content string, format string) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		return content + "\n"
	}
	return content
}
