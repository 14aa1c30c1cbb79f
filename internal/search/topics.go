package search

// topicPhrases is the fixed vocabulary defining candidate posts for manual
// review. Each phrase is one group: every word of the phrase must match
// (title or body) for the group to fire, and a post is a candidate when any
// group fires. Configuration data, not user input; compiled once per engine.
var topicPhrases = []string{
	"degree",
	"career", "careers",
	"programming",
	"school",
	"learn", "learning",
	"switch", "switching",
	"change", "changing",
	"college", "university",
	"advice",
	"bootcamp", "bootcamps", "camp", "camps",
	"self taught",
}
