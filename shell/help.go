package shell

import (
	"embed"
	"path"
	"strings"
)

//go:embed helptext/*.txt
var helptext embed.FS

func usage() string {
	dat, err := helptext.ReadFile("helptext/usage.txt")
	if err != nil {
		return "Error loading helptext: " + err.Error()
	}
	return strings.TrimRight(string(dat), "\n")
}

func usageTopic(topic string) string {
	dat, err := helptext.ReadFile(path.Join("helptext", path.Base(topic)+".txt"))
	if err != nil {
		return "There is no help text for the topic " + topic
	}
	return strings.TrimRight(string(dat), "\n")
}
